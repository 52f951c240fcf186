package main

import "github.com/Fingel/fastastro/internal/app"

func main() {
	app.Run()
}
