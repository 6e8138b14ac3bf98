// Package cell provides observable value holders.
//
// A Cell keeps a current value that can be read synchronously and pushes
// new values to its subscribers only when they differ from the current one:
//
//	params := cell.New(map[string]string{"id": "1"}).
//	    WithEquals(cell.ShallowEqual[string, string])
//	stop := params.Subscribe(func(p map[string]string) {
//	    log.Println("id is now", p["id"])
//	})
//	defer stop()
//
//	params.Set(map[string]string{"id": "1"}) // no notification
//	params.Set(map[string]string{"id": "2"}) // notifies
//
// Each subscription is cancelled independently by its own function.
package cell
