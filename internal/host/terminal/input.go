package terminal

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/canvaskeys/internal/dom"
	"github.com/dshills/canvaskeys/internal/input/key"
	"github.com/dshills/canvaskeys/internal/input/mouse"
)

// keyValue returns the browser-style key value of a terminal key event.
func keyValue(ev *tcell.EventKey) (string, bool) {
	switch ev.Key() {
	case tcell.KeyRune:
		return string(ev.Rune()), true
	case tcell.KeyEscape:
		return key.Escape, true
	case tcell.KeyEnter:
		return key.Enter, true
	case tcell.KeyTab:
		return key.Tab, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.Backspace, true
	case tcell.KeyDelete:
		return key.Delete, true
	case tcell.KeyInsert:
		return key.Insert, true
	case tcell.KeyHome:
		return key.Home, true
	case tcell.KeyEnd:
		return key.End, true
	case tcell.KeyPgUp:
		return key.PageUp, true
	case tcell.KeyPgDn:
		return key.PageDown, true
	case tcell.KeyUp:
		return key.ArrowUp, true
	case tcell.KeyDown:
		return key.ArrowDown, true
	case tcell.KeyLeft:
		return key.ArrowLeft, true
	case tcell.KeyRight:
		return key.ArrowRight, true
	}
	return "", false
}

// buttonMask converts tcell buttons to a pointer-event button mask.
// Wheel buttons are dropped.
func buttonMask(b tcell.ButtonMask) mouse.Buttons {
	var m mouse.Buttons
	if b&tcell.Button1 != 0 {
		m |= mouse.ButtonPrimary
	}
	if b&tcell.Button2 != 0 {
		m |= mouse.ButtonSecondary
	}
	if b&tcell.Button3 != 0 {
		m |= mouse.ButtonAuxiliary
	}
	return m
}

// pointerTracker turns terminal mouse reports into pointer events.
type pointerTracker struct {
	pos     mouse.Position
	buttons mouse.Buttons
	known   bool
}

// translate returns the events for one mouse report: a mousemove when the
// pointer moved and a click when the primary button was released.
func (p *pointerTracker) translate(ev *tcell.EventMouse, target func(mouse.Position) *dom.Element) []*dom.Event {
	x, y := ev.Position()
	pos := mouse.Position{X: x, Y: y}
	buttons := buttonMask(ev.Buttons())

	var out []*dom.Event
	if !p.known || !pos.Equal(p.pos) || buttons != p.buttons {
		out = append(out, &dom.Event{
			Type:    dom.MouseMove,
			Target:  target(pos),
			X:       x,
			Y:       y,
			Buttons: int(buttons),
		})
	}
	if p.buttons.Has(mouse.ButtonPrimary) && !buttons.Has(mouse.ButtonPrimary) {
		out = append(out, &dom.Event{
			Type:    dom.Click,
			Target:  target(pos),
			X:       x,
			Y:       y,
			Buttons: int(buttons),
		})
	}

	p.pos, p.buttons, p.known = pos, buttons, true
	return out
}
