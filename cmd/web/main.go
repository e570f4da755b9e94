package main

import (
	"leadtrack/internal/app"
)

func main() {
	app.Run()
}
