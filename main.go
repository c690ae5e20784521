package main

import "github.com/tayloree/storefront-catalog/cmd"

func main() {
	cmd.Execute()
}
