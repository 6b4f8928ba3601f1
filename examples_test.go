package webcompress

import (
	"fmt"
)

func Example() {
	inputs := []string{
		"hello world",
		"aaaabbbccd",
	}
	for _, input := range inputs {
		comp, err := Encode([]byte(input))
		if err != nil {
			fmt.Println(err)
			continue
		}
		orig, err := Decode(comp)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(string(orig))
	}
	// Output:
	// hello world
	// aaaabbbccd
}

func ExampleNewCodeTable() {
	tree, err := BuildTree(Count([]byte("aaaabbbccd")))
	if err != nil {
		fmt.Println(err)
		return
	}
	table := NewCodeTable(tree)
	for _, sym := range table.Symbols() {
		code, _ := table.Lookup(sym)
		fmt.Printf("%c %s\n", sym, code)
	}
	// Output:
	// a 0
	// b 10
	// c 111
	// d 110
}
