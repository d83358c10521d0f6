// Package ui provides composables over the render contract.
//
// Each composable emits one element through the renderer bound to the
// composition, so a page reads as nested calls:
//
//	func Counter(c *compose.Composer) {
//	    count := compose.RememberState(c, 0)
//	    ui.Column(c, ui.Modifier{}.Class("counter"), func() {
//	        ui.Text(c, fmt.Sprintf("Count: %d", count.Get(c)), ui.Modifier{})
//	        ui.Button(c, func() { count.Update(inc) }, ui.Modifier{}, func() {
//	            ui.Text(c, "+", ui.Modifier{})
//	        })
//	    })
//	}
//
// Validation failures such as an out-of-range progress value are returned
// as Result values rather than raised.
package ui
