// Package main
package main

import "github.com/qqessentials/go-qqessentials/cmd/qqessentials"

func main() {
	qqessentials.Main()
}
