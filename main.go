package main

import (
	"os"

	"github.com/RecipeSync/RecipeSync/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
