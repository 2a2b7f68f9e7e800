package main

import "supplymatch_backend/internal/app"

func main() {
	app.Run()
}
