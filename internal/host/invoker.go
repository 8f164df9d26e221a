package host

import (
	"errors"
	"fmt"

	"github.com/dshills/canvaskeys/internal/action"
)

var (
	// ErrNoLocator is returned for action ids without a locator.
	ErrNoLocator = errors.New("no locator for action")

	// ErrControlNotFound is returned when a locator matches nothing.
	ErrControlNotFound = errors.New("control not found on page")
)

// Well-known control identifiers of the canvas toolbar.
const (
	IconPaint         = "icon:paint"
	IconEraser        = "icon:eraser"
	IconColorPicker   = "icon:color-picker"
	IconOpacity       = "icon:opacity"
	IconOpacityActive = "icon:opacity-active"
	IconReady         = "icon:favicon"
	LabelZoomIn       = "+"
	LabelZoomOut      = "-"
	SettingsAnchorID  = "palette-notes"
	SettingsControlID = "keybinds"
)

// Logger receives lookup failures.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Invoker clicks the page control behind an action. It implements
// action.Invoker.
type Invoker struct {
	page     *Page
	locators map[string]action.Locator
	logger   Logger
}

// NewInvoker creates an invoker resolving actions on page.
func NewInvoker(page *Page, locators map[string]action.Locator, logger Logger) *Invoker {
	return &Invoker{
		page:     page,
		locators: locators,
		logger:   logger,
	}
}

// DefaultLocators returns the locators for the default catalog's
// click-through actions. Zoom buttons carry no icon, so they are found by
// label.
func DefaultLocators(page *Page) map[string]action.Locator {
	byLabel := func(label string) action.Locator {
		return action.CustomLookup(func() (string, bool) {
			c, ok := page.FindByLabel(label)
			if !ok {
				return "", false
			}
			return c.ID, true
		})
	}

	return map[string]action.Locator{
		action.ActionsUI:   action.IdentifierList(IconPaint),
		action.ZoomIn:      byLabel(LabelZoomIn),
		action.ZoomOut:     byLabel(LabelZoomOut),
		action.Eraser:      action.IdentifierList(IconEraser),
		action.ColorPicker: action.IdentifierList(IconColorPicker),
		action.Opacity:     action.IdentifierList(IconOpacity, IconOpacityActive),
	}
}

// Locate finds the control for action id.
func (inv *Invoker) Locate(id string) (*Control, error) {
	loc, ok := inv.locators[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoLocator, id)
	}

	switch loc.Kind() {
	case action.KindIdentifierList:
		for _, ident := range loc.Values() {
			if c, ok := inv.page.FindByIdentifier(ident); ok {
				return c, nil
			}
		}
	case action.KindCustomLookup:
		if cid, ok := loc.Resolve(); ok {
			if c, ok := inv.page.Control(cid); ok {
				return c, nil
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoLocator, id)
	}
	return nil, fmt.Errorf("%w: %s", ErrControlNotFound, id)
}

// Invoke clicks the control behind id. Both edges of a hold action click,
// so the page sees a press-and-release as two clicks.
func (inv *Invoker) Invoke(id string, phase action.Phase) bool {
	c, err := inv.Locate(id)
	if err != nil {
		if inv.logger != nil {
			inv.logger.Warn("%v", err)
		}
		return false
	}
	if c.Click == nil {
		return false
	}

	if inv.logger != nil {
		inv.logger.Debug("clicking %s for %s (%s)", c.ID, id, phase)
	}
	c.Click()
	return true
}
