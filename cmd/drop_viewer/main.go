package main

import (
	"os"

	"github.com/aurceive/drop_viewer/internal/app"
)

func main() {
	os.Exit(app.Run())
}
