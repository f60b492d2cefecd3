package main

import (
	"context"
	"errors"
	"net/http"
)

func main() {
	app := mustBootstrapRailAPI()
	defer app.Close()

	err := runRailAPI(app.ctx, app.opts, app.deps)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	}
}
