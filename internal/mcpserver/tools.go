package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers the wizard tools with the MCP server.
func (s *Server) registerTools() error {
	s.mcpServer.AddTool(
		mcp.NewTool("brand-options",
			mcp.WithDescription("List every car brand of the taxonomy"),
		),
		s.handleBrandOptions,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("model-options",
			mcp.WithDescription("List the models of a brand"),
			mcp.WithString("brand", mcp.Required(), mcp.Description("Brand name")),
		),
		s.handleModelOptions,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("variant-options",
			mcp.WithDescription("List the variants of a brand and model"),
			mcp.WithString("brand", mcp.Required(), mcp.Description("Brand name")),
			mcp.WithString("model", mcp.Required(), mcp.Description("Model name")),
		),
		s.handleVariantOptions,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("derived-options",
			mcp.WithDescription("List the values at one level of the in-stock taxonomy, given the selections above it"),
			mcp.WithString("level", mcp.Required(),
				mcp.Description("Taxonomy level"),
				mcp.Enum("brand", "model", "variant", "transmission", "color"),
			),
			mcp.WithString("brand", mcp.Description("Selected brand")),
			mcp.WithString("model", mcp.Description("Selected model")),
			mcp.WithString("variant", mcp.Description("Selected variant")),
			mcp.WithString("transmission", mcp.Description("Selected transmission")),
		),
		s.handleDerivedOptions,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("field-options",
			mcp.WithDescription("List the options of any select field of a wizard for the given values"),
			mcp.WithString("flavor", mcp.Required(),
				mcp.Description("Wizard flavor"),
				mcp.Enum("trade-in", "sell", "notify"),
			),
			mcp.WithString("field", mcp.Required(), mcp.Description("Field name")),
			mcp.WithObject("values", mcp.Description("Current field values")),
		),
		s.handleFieldOptions,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("validate-step",
			mcp.WithDescription("Validate one wizard step and return the field errors"),
			mcp.WithString("step", mcp.Required(),
				mcp.Description("Step name"),
				mcp.Enum("vehicle", "contact", "inspection", "new-car", "review"),
			),
			mcp.WithObject("values", mcp.Required(), mcp.Description("Field values keyed by field name, e.g. brand, phone")),
		),
		s.handleValidateStep,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("build-payload",
			mcp.WithDescription("Show the submission payload a wizard would send for the given values"),
			mcp.WithString("flavor", mcp.Required(), mcp.Enum("trade-in", "sell", "notify")),
			mcp.WithObject("values", mcp.Required(), mcp.Description("Field values keyed by field name, e.g. brand, phone")),
		),
		s.handleBuildPayload,
	)

	if s.cfg.Requests != nil {
		s.mcpServer.AddTool(
			mcp.NewTool("submit-request",
				mcp.WithDescription("Validate every step of a wizard and store the request"),
				mcp.WithString("flavor", mcp.Required(), mcp.Enum("trade-in", "sell", "notify")),
				mcp.WithObject("values", mcp.Required(), mcp.Description("Field values keyed by field name, e.g. brand, phone")),
			),
			s.handleSubmitRequest,
		)
	}

	return nil
}
