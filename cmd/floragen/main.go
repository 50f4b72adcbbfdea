// Copyright (C) 2026 The FlowerGenTool Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command floragen grows generative organisms from text prompts.
package main

import (
	"os"

	"github.com/LorneSvarc/FlowerGenTool/pkg/ux"
)

func main() {
	err := rootCmd.Execute()
	if current != nil {
		current.close()
	}
	if err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
}
