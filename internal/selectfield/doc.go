// Package selectfield implements a multi-select combobox (tag input) as a
// Bubble Tea component.
//
// A Field is mounted onto a Surface. It shows a label, the chosen values as
// removable chips, a search input and, while open, a menu of candidates:
// catalog items that are not chosen yet and whose display text contains the
// search text. Enter chooses the first candidate; mouse presses choose
// candidates, remove chips, focus the input or blur the field.
//
// State lives in State, a value with pure transition methods. The Field
// wraps it with the text input, delayed menu behaviour and notifications.
// Every choice and removal is reported to the configured callbacks and to
// the subscribers of the Surface:
//
//	page := selectfield.NewPage()
//	page.Add("tags")
//	field, err := selectfield.Mount(page, "#tags", items, selectfield.Options[string]{
//	    Label: "Tags",
//	})
//	...
//	unsubscribe := field.Surface().Subscribe(selectfield.EventChange, func(e selectfield.Event) {
//	    change := e.(selectfield.ChangeEvent[string])
//	    log.Println(change.Chosen)
//	})
package selectfield
