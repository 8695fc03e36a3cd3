package console

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Panel is one block of the home overview.
type Panel struct {
	Name  string      `json:"name"`
	Count int         `json:"count"`
	Items interface{} `json:"items"`
	Error string      `json:"error,omitempty"`
}

// Loader fetches one overview panel.
type Loader struct {
	Name string
	Load func(ctx context.Context) (items interface{}, count int, err error)
}

// Overview runs every loader in parallel. A failing loader yields a panel
// carrying its error; the other panels are still returned. Panels keep the
// loaders' order.
func Overview(ctx context.Context, loaders ...Loader) []Panel {
	panels := make([]Panel, len(loaders))
	var g errgroup.Group
	for i, l := range loaders {
		i, l := i, l
		g.Go(func() error {
			items, count, err := l.Load(ctx)
			panels[i] = Panel{Name: l.Name, Items: items, Count: count}
			if err != nil {
				panels[i] = Panel{Name: l.Name, Items: []interface{}{}, Error: err.Error()}
			}
			return nil
		})
	}
	_ = g.Wait()
	return panels
}
