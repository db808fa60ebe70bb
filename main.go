package main

import "github.com/iksnae/pdfchat/cmd"

func main() {
	cmd.Execute()
}
