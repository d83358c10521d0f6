package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://summon.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Structural errors (E001-E009)
	"E001": {
		Category: CategoryStructural,
		Message:  "Unmatched group end",
		Detail:   "EndGroup or EndNode was called without a matching StartGroup or StartNode, or closed a bracket of the other kind.",
		DocURL:   docBase + "E001",
	},
	"E002": {
		Category: CategoryStructural,
		Message:  "Group left open",
		Detail:   "A composition pass finished while a group or node was still open.",
		DocURL:   docBase + "E002",
	},
	"E003": {
		Category: CategoryStructural,
		Message:  "Slot type mismatch",
		Detail:   "A slot was read as a different kind than it was written with. Wrap conditional content in a keyed group so positional slots stay aligned.",
		DocURL:   docBase + "E003",
	},
	"E004": {
		Category: CategoryStructural,
		Message:  "Slot access outside a group",
		Detail:   "Slots can only be read or written while a group is open.",
		DocURL:   docBase + "E004",
	},

	// Configuration errors (E010-E019)
	"E010": {
		Category: CategoryConfig,
		Message:  "No active composer",
		Detail:   "A composition-only API was used while no composition pass was running.",
		DocURL:   docBase + "E010",
	},
	"E011": {
		Category: CategoryConfig,
		Message:  "Missing provider",
		Detail:   "A required composition local was read without a value provided by an ancestor.",
		DocURL:   docBase + "E011",
	},
	"E012": {
		Category: CategoryConfig,
		Message:  "Composition disposed",
		Detail:   "The recomposer has been disposed and can no longer run passes.",
		DocURL:   docBase + "E012",
	},

	// Effect errors (E020-E029)
	"E020": {
		Category: CategoryEffect,
		Message:  "Effect setup failed",
		Detail:   "An effect panicked during setup. The effect is marked disposed and will not be retried.",
		DocURL:   docBase + "E020",
	},
	"E021": {
		Category: CategoryEffect,
		Message:  "Effect cleanup failed",
		Detail:   "An effect panicked during cleanup. The effect is marked disposed.",
		DocURL:   docBase + "E021",
	},
	"E022": {
		Category: CategoryEffect,
		Message:  "Launched effect body failed",
		Detail:   "A launched effect body panicked. The effect is marked disposed.",
		DocURL:   docBase + "E022",
	},

	// Render errors (E030-E039)
	"E030": {
		Category: CategoryRender,
		Message:  "Composition pass failed",
		Detail:   "The root composable panicked; the render was aborted.",
		DocURL:   docBase + "E030",
	},
	"E031": {
		Category: CategoryRender,
		Message:  "Initial state not serializable",
		Detail:   "The hydration state could not be encoded as JSON.",
		DocURL:   docBase + "E031",
	},
	"E032": {
		Category: CategoryRender,
		Message:  "Document write failed",
		Detail:   "Writing the HTML document to the output failed.",
		DocURL:   docBase + "E032",
	},

	// Validation errors (E040-E049)
	"E040": {
		Category: CategoryValidation,
		Message:  "Value out of range",
		Detail:   "A component received a value outside its accepted range.",
		DocURL:   docBase + "E040",
	},

	// CLI and config file errors (E050-E059)
	"E050": {
		Category: CategoryCLI,
		Message:  "Invalid configuration",
		Detail:   "The configuration file or environment contains an invalid value.",
		DocURL:   docBase + "E050",
	},
	"E051": {
		Category: CategoryCLI,
		Message:  "Configuration file unreadable",
		Detail:   "The configuration file could not be read or parsed.",
		DocURL:   docBase + "E051",
	},
	"E052": {
		Category: CategoryCLI,
		Message:  "Unknown page",
		Detail:   "The requested page is not registered.",
		DocURL:   docBase + "E052",
	},

	// Live session errors (E060-E069)
	"E060": {
		Category: CategoryLive,
		Message:  "Event handler failed",
		Detail:   "An event handler panicked while handling a client event.",
		DocURL:   docBase + "E060",
	},
	"E061": {
		Category: CategoryLive,
		Message:  "Unknown event target",
		Detail:   "The client sent an event for an element that has no handler for it.",
		DocURL:   docBase + "E061",
	},
	"E062": {
		Category: CategoryLive,
		Message:  "Too many live sessions",
		Detail:   "The server reached its live session limit.",
		DocURL:   docBase + "E062",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
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
