package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// URL Errors (R001-R019)
	// ============================================

	"R001": {
		Category: CategoryURL,
		Message:  "Malformed URL",
		DocURL:   "https://routetree.dev/docs/errors/R001",
	},
	"R002": {
		Category: CategoryURL,
		Message:  "Invalid navigation commands",
		DocURL:   "https://routetree.dev/docs/errors/R002",
	},

	// ============================================
	// Matching Errors (R100-R119)
	// ============================================

	"R100": {
		Category: CategoryMatch,
		Message:  "Cannot match any routes",
		DocURL:   "https://routetree.dev/docs/errors/R100",
	},
	"R101": {
		Category: CategoryMatch,
		Message:  "Invalid redirect",
		DocURL:   "https://routetree.dev/docs/errors/R101",
	},
	"R102": {
		Category: CategoryConfig,
		Message:  "Invalid route configuration",
		DocURL:   "https://routetree.dev/docs/errors/R102",
	},
	"R103": {
		Category: CategoryMatch,
		Message:  "Two segments cannot have the same outlet name",
		DocURL:   "https://routetree.dev/docs/errors/R103",
	},
	"R104": {
		Category: CategoryGuard,
		Message:  "Unknown capability",
		DocURL:   "https://routetree.dev/docs/errors/R104",
	},
	"R105": {
		Category: CategoryGuard,
		Message:  "Guard rejected navigation",
		DocURL:   "https://routetree.dev/docs/errors/R105",
	},
	"R106": {
		Category: CategoryConfig,
		Message:  "Route configuration load failed",
		DocURL:   "https://routetree.dev/docs/errors/R106",
	},

	// ============================================
	// CLI Errors (R120-R139)
	// ============================================

	"R120": {
		Category: CategoryCLI,
		Message:  "Invalid routetree.json",
		DocURL:   "https://routetree.dev/docs/errors/R120",
	},
	"R121": {
		Category: CategoryCLI,
		Message:  "Missing routetree.json",
		DocURL:   "https://routetree.dev/docs/errors/R121",
	},
}

// Sentinels for errors.Is matching by code.
var (
	ErrMalformedURL      = &RouteError{Code: "R001"}
	ErrInvalidCommands   = &RouteError{Code: "R002"}
	ErrCannotMatch       = &RouteError{Code: "R100"}
	ErrInvalidRedirect   = &RouteError{Code: "R101"}
	ErrInvalidConfig     = &RouteError{Code: "R102"}
	ErrDuplicateOutlet   = &RouteError{Code: "R103"}
	ErrUnknownCapability = &RouteError{Code: "R104"}
	ErrGuardRejected     = &RouteError{Code: "R105"}
	ErrLoadFailed        = &RouteError{Code: "R106"}
	ErrInvalidCLIConfig  = &RouteError{Code: "R120"}
	ErrMissingConfig     = &RouteError{Code: "R121"}
)

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
