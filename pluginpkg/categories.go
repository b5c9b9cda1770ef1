package pluginpkg

// CategoryDescriptor lists the stub methods a template for a given
// base category must emit, replacing reflection-based discovery of
// abstract methods with a static table each category is pre-registered
// into.
type CategoryDescriptor struct {
	// BaseName is the Go-idiom stand-in for the category's abstract
	// base class name, used only in generated doc comments.
	BaseName string
	// Methods are additional stub methods (beyond the DeclareInputs,
	// DeclareOutputs and Process stubs every category gets) the
	// category's original base class declared abstract.
	Methods []StubMethod
}

// StubMethod is a single abstract operation a template stub emits a
// signature (and a body that returns a zero value / not-implemented
// error) for.
type StubMethod struct {
	Name       string
	Params     string
	Returns    string
	ZeroReturn string
}

// CategoryRegistry is the static table of built-in plugin categories a
// template can be generated for. An unknown category falls back to the
// bare Plugin interface: stubs for DeclareInputs, DeclareOutputs and
// Process, with BindInput, BindOutput and Verify from pluginapi.Base.
var CategoryRegistry = map[string]CategoryDescriptor{
	"exchange": {
		BaseName: "ExchangeInterface",
		Methods: []StubMethod{
			{Name: "FetchTicker", Params: "symbol string", Returns: "(map[string]float64, error)", ZeroReturn: "nil, nil"},
			{Name: "FetchOHLCV", Params: "symbol, timeframe string, limit int", Returns: "([][]float64, error)", ZeroReturn: "nil, nil"},
			{Name: "FetchRecentTrades", Params: "symbol string, limit int", Returns: "([]map[string]float64, error)", ZeroReturn: "nil, nil"},
			{Name: "FetchOrderBook", Params: "symbol string, depth int", Returns: "(map[string][][]float64, error)", ZeroReturn: "nil, nil"},
			{Name: "FetchMarketStatus", Params: "", Returns: "(map[string]string, error)", ZeroReturn: "nil, nil"},
		},
	},
	"data": {
		BaseName: "DataPlugin",
		Methods:  nil,
	},
	"indicator": {
		BaseName: "Indicator",
		Methods: []StubMethod{
			{Name: "Compute", Params: "data [][]float64", Returns: "([]float64, error)", ZeroReturn: "nil, nil"},
		},
	},
	"feature": {
		BaseName: "Feature",
		Methods: []StubMethod{
			{Name: "Compute", Params: "data [][]float64", Returns: "([]float64, error)", ZeroReturn: "nil, nil"},
		},
	},
	"signal": {
		BaseName: "SignalPlugin",
		Methods:  nil,
	},
	"strategy": {
		BaseName: "Strategy",
		Methods: []StubMethod{
			{Name: "Execute", Params: "marketData map[string]any", Returns: "(string, error)", ZeroReturn: `"", nil`},
		},
	},
	"model": {
		BaseName: "Model",
		Methods: []StubMethod{
			{Name: "Train", Params: "trainingData []any", Returns: "error", ZeroReturn: "nil"},
			{Name: "Predict", Params: "inputData []any", Returns: "(float64, error)", ZeroReturn: "0, nil"},
		},
	},
}
