// Package main Blueprint Studio configuration management API
package main

import "github.com/blueprintstudio/blueprintstudio/internal"

func main() {
	internal.Run()
}
