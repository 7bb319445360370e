package errors

// ErrorTemplate defines a registered condition.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Errors (E001-E099): genuine failures
	// ============================================

	"E001": {
		Category: CategoryBinding,
		Message:  "Derived store requires valid sources",
		Detail:   "A derived computation cannot run with a nil or missing source store.",
	},
	"E002": {
		Category: CategoryRebind,
		Message:  "Watched render produced a different template shape",
		Detail:   "A watched render function must return the same fragment sequence on every evaluation. Behavior after a shape change is best-effort and undefined.",
	},

	// ============================================
	// Warnings (W101-W199): logged, recovered
	// ============================================

	"W101": {
		Category: CategoryTemplate,
		Message:  "Text template contains markup",
		Detail:   "Text templates are rendered as flat text; embedded tags will not become elements.",
	},
	"W102": {
		Category: CategoryTemplate,
		Message:  "Markup template does not start with a tag",
		Detail:   "Markup templates normally begin with an element; leading text binds as an orphan text node.",
	},
	"W103": {
		Category: CategoryTemplate,
		Message:  "Fragment and value counts do not line up",
		Detail:   "A template must have exactly one more fragment than it has interpolated values.",
	},
	"W110": {
		Category: CategoryRebind,
		Message:  "Rebind target is not writable",
		Detail:   "A plain value cannot be pushed into a fixed store slot; the update was skipped.",
	},
	"W111": {
		Category: CategoryRebind,
		Message:  "Interpolation slot changed kind",
		Detail:   "A slot must keep the kind (store vs plain value) it started with; re-typing is unsupported.",
	},
	"W120": {
		Category: CategoryDisposal,
		Message:  "Cleanup attached to uncomparable value",
		Detail:   "Only identity-comparable values can carry a disposal chain.",
	},
}
