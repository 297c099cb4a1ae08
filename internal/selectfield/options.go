package selectfield

import (
	"log/slog"
	"sort"
	"time"

	"github.com/ruminaider/selectfield/internal/schedule"
)

const (
	DefaultLabel       = "Select items"
	DefaultPlaceholder = "Search..."

	// DefaultReopenDelay is how long the menu stays closed after a choice
	// before it reopens with the input refocused.
	DefaultReopenDelay = 50 * time.Millisecond

	// DefaultBlurDelay lets a pending candidate press land before a blur
	// closes the menu.
	DefaultBlurDelay = 150 * time.Millisecond
)

// Reconcile decides what happens to the chosen values when the catalog is
// replaced with SetItems.
type Reconcile int

const (
	// ReconcileRetain keeps chosen values that are still in the new catalog
	// and drops the rest.
	ReconcileRetain Reconcile = iota

	// ReconcileSelectAll chooses every value of the new catalog, in catalog
	// order.
	ReconcileSelectAll
)

// String returns the config/flag spelling of the policy.
func (r Reconcile) String() string {
	switch r {
	case ReconcileSelectAll:
		return "select-all"
	default:
		return "retain"
	}
}

// ParseReconcile accepts "retain" or "select-all". Empty means retain.
func ParseReconcile(s string) (Reconcile, bool) {
	switch s {
	case "", "retain":
		return ReconcileRetain, true
	case "select-all":
		return ReconcileSelectAll, true
	default:
		return ReconcileRetain, false
	}
}

// Options configures a Field. Label, Placeholder, Disabled, OnSelect and
// OnRemove are the recognized field options; the rest tune behaviour for
// hosts and tests.
type Options[V comparable] struct {
	Label       string
	Placeholder string
	Disabled    bool
	OnSelect    func(Detail[V])
	OnRemove    func(Detail[V])

	Reconcile   Reconcile
	ReopenDelay time.Duration
	BlurDelay   time.Duration

	// MenuHeight caps the number of candidate rows. Zero shows all rows.
	MenuHeight int

	Scheduler schedule.Scheduler
	Logger    *slog.Logger
	Styles    *Styles
}

func (o Options[V]) withDefaults() Options[V] {
	if o.Label == "" {
		o.Label = DefaultLabel
	}
	if o.Placeholder == "" {
		o.Placeholder = DefaultPlaceholder
	}
	if o.ReopenDelay <= 0 {
		o.ReopenDelay = DefaultReopenDelay
	}
	if o.BlurDelay <= 0 {
		o.BlurDelay = DefaultBlurDelay
	}
	if o.MenuHeight < 0 {
		o.MenuHeight = 0
	}
	if o.Scheduler == nil {
		o.Scheduler = schedule.Tick{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Styles == nil {
		s := DefaultStyles()
		o.Styles = &s
	}
	return o
}

// ParseOptions builds Options from a loose key/value map such as a decoded
// config file section. Recognized keys are label, placeholder, disabled,
// onSelect and onRemove. Values of the wrong type are dropped, including
// callbacks that are not func(Detail[V]). Unknown keys are returned so the
// caller can report them; they never affect the result.
func ParseOptions[V comparable](raw map[string]any) (Options[V], []string) {
	var (
		opts    Options[V]
		ignored []string
	)
	for key, value := range raw {
		switch key {
		case "label":
			if s, ok := value.(string); ok {
				opts.Label = s
			}
		case "placeholder":
			if s, ok := value.(string); ok {
				opts.Placeholder = s
			}
		case "disabled":
			if b, ok := value.(bool); ok {
				opts.Disabled = b
			}
		case "onSelect":
			if fn, ok := value.(func(Detail[V])); ok {
				opts.OnSelect = fn
			}
		case "onRemove":
			if fn, ok := value.(func(Detail[V])); ok {
				opts.OnRemove = fn
			}
		default:
			ignored = append(ignored, key)
		}
	}
	sort.Strings(ignored)
	return opts, ignored
}
