package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mobilkita/tradein/internal/form"
	"github.com/mobilkita/tradein/internal/inventory"
	"github.com/mobilkita/tradein/internal/requests"
	"github.com/mobilkita/tradein/internal/taxonomy"
	"github.com/mobilkita/tradein/internal/validate"
	"github.com/mobilkita/tradein/internal/wizard"
)

// jsonResult renders v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// valuesArg reads the "values" object. Keys are matched to fields
// case-insensitively; unknown keys are an error so typos do not pass
// silently.
func valuesArg(args map[string]any) (form.Values, error) {
	raw, ok := args["values"]
	if !ok || raw == nil {
		return form.Values{}, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.New("'values' is not an object")
	}
	values := make(form.Values, len(obj))
	for k, v := range obj {
		f, ok := form.ParseField(k)
		if !ok {
			return nil, fmt.Errorf("unknown field %q", k)
		}
		switch val := v.(type) {
		case string:
			values[f] = val
		case nil:
		default:
			values[f] = fmt.Sprint(val)
		}
	}
	return values, nil
}

func (s *Server) products(ctx context.Context) ([]inventory.Product, error) {
	if s.cfg.Inventory == nil {
		return nil, nil
	}
	return s.cfg.Inventory.Products(ctx)
}

// handleBrandOptions lists the taxonomy brands.
func (s *Server) handleBrandOptions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.cfg.Tree.BrandOptions())
}

// handleModelOptions lists the models of a brand.
func (s *Server) handleModelOptions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	brand := stringArg(args, "brand")
	if brand == "" {
		return mcp.NewToolResultText("error: missing 'brand' parameter"), nil
	}
	return jsonResult(s.cfg.Tree.ModelOptions(brand))
}

// handleVariantOptions lists the variants of a brand and model.
func (s *Server) handleVariantOptions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	brand, model := stringArg(args, "brand"), stringArg(args, "model")
	if brand == "" || model == "" {
		return mcp.NewToolResultText("error: 'brand' and 'model' are required"), nil
	}
	return jsonResult(s.cfg.Tree.VariantOptions(brand, model))
}

// handleDerivedOptions resolves one level of the in-stock taxonomy.
func (s *Server) handleDerivedOptions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	level, err := taxonomy.ParseLevel(stringArg(args, "level"))
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	products, err := s.products(ctx)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to load inventory: %v", err)), nil
	}
	sel := taxonomy.Selection{
		Brand:        stringArg(args, "brand"),
		Model:        stringArg(args, "model"),
		Variant:      stringArg(args, "variant"),
		Transmission: stringArg(args, "transmission"),
	}
	return jsonResult(taxonomy.Derived(level, sel, products))
}

// handleFieldOptions resolves any select field the way the wizard does.
func (s *Server) handleFieldOptions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	flavor, err := wizard.ParseFlavor(stringArg(args, "flavor"))
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	field, ok := form.ParseField(stringArg(args, "field"))
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("error: unknown field %q", stringArg(args, "field"))), nil
	}
	if wizard.KindOf(field) != wizard.KindSelect {
		return mcp.NewToolResultText(fmt.Sprintf("error: %s is not a select field", field)), nil
	}
	values, err := valuesArg(args)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	products, err := s.products(ctx)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to load inventory: %v", err)), nil
	}

	catalog := wizard.NewCatalog(flavor, s.cfg.Showrooms).WithTree(s.cfg.Tree).WithProducts(products)
	opts := catalog.Options(field, values)
	if opts == nil {
		opts = []taxonomy.Option{}
	}
	return jsonResult(opts)
}

type stepResult struct {
	Step   validate.Step   `json:"step"`
	Valid  bool            `json:"valid"`
	Errors validate.Errors `json:"errors"`
}

// handleValidateStep runs one step validator. Values are normalized the way
// the form store does it before validation.
func (s *Server) handleValidateStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	step := validate.Step(stringArg(args, "step"))
	if len(validate.Fields(step)) == 0 && step != validate.StepReview {
		return mcp.NewToolResultText(fmt.Sprintf("error: unknown step %q", step)), nil
	}
	values, err := valuesArg(args)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}

	store := form.NewStore(form.Config{Defaults: values, PhonePrefix: s.cfg.PhonePrefix})
	errs := validate.New(store.PhonePrefix()).Step(step, store.Snapshot())
	return jsonResult(stepResult{Step: step, Valid: errs.Valid(), Errors: errs})
}

// handleBuildPayload shows the payload a wizard would submit.
func (s *Server) handleBuildPayload(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	flavor, err := wizard.ParseFlavor(stringArg(args, "flavor"))
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	values, err := valuesArg(args)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	store := form.NewStore(form.Config{Defaults: values, PhonePrefix: s.cfg.PhonePrefix})
	return jsonResult(wizard.BuildPayload(flavor, store.Snapshot()))
}

type submitResult struct {
	Submitted bool              `json:"submitted"`
	Step      validate.Step     `json:"step,omitempty"`
	Errors    validate.Errors   `json:"errors,omitempty"`
	Message   string            `json:"message,omitempty"`
	Data      map[string]string `json:"data,omitempty"`
}

// handleSubmitRequest walks a wizard through every step with the given
// values and submits it. Select values must be among the offered options.
// Calling the tool counts as accepting the terms.
func (s *Server) handleSubmitRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	flavor, err := wizard.ParseFlavor(stringArg(args, "flavor"))
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	values, err := valuesArg(args)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	products, err := s.products(ctx)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: failed to load inventory: %v", err)), nil
	}

	catalog := wizard.NewCatalog(flavor, s.cfg.Showrooms).WithTree(s.cfg.Tree).WithProducts(products)
	if step, errs := catalog.Unlisted(values); !errs.Valid() {
		return jsonResult(submitResult{Step: step, Errors: errs})
	}

	w, err := wizard.New(wizard.Options{
		Flavor:      flavor,
		Prefill:     values,
		PhonePrefix: s.cfg.PhonePrefix,
		Showrooms:   s.cfg.Showrooms,
		Tree:        s.cfg.Tree,
		Products:    products,
		Submitter:   requests.Submitter{Store: s.cfg.Requests},
	})
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
	}
	defer w.Close()
	w.AcceptTerms(true)

	for !w.Submitted() {
		err := w.Next(ctx)
		var subErr *wizard.SubmissionError
		switch {
		case err == nil:
		case errors.Is(err, wizard.ErrInvalidStep):
			return jsonResult(submitResult{Step: w.Step(), Errors: w.Errors()})
		case errors.As(err, &subErr):
			return jsonResult(submitResult{Message: subErr.Error()})
		default:
			return mcp.NewToolResultText(fmt.Sprintf("error: %v", err)), nil
		}
	}
	return jsonResult(submitResult{Submitted: true, Data: w.LastResult().Data})
}
