package main

import "fpgakit/internal/fpgakit"

func main() {
	fpgakit.Main()
}
