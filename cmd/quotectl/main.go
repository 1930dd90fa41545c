package main

import "houseboat/internal/quotectl"

func main() {
	quotectl.Execute()
}
