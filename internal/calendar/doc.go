// Package calendar provides the calendar endpoints of the API.
//
// Example usage:
//
//	m := calendar.NewManager(dispatcher)
//
//	// List upcoming events
//	after := time.Now()
//	for entry, err := range m.ListEvents(ctx, calendar.ListEventsOptions{After: &after}) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(entry.Event.Name)
//	}
package calendar
