package main

import (
	"github.com/akhirox/chbk/core/internal/app"
	"github.com/akhirox/chbk/core/internal/config"
)

func main() {
	app.Go(config.Load())
}
