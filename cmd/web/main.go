package main

import "sohagstore_backend/internal/app"

func main() {
	app.Run()
}
