package observable_test

import (
	"fmt"

	"github.com/kestrelab/observable"
)

func ExampleList() {
	list := observable.NewList("read", "eval")

	list.AddBeforeContentChangeListener(func(c observable.ContentChange[string]) {
		fmt.Printf("about to insert %v at %d (length %d)\n", c.Inserted, c.Index, list.Len())
	})
	list.AddContentChangeListener(func(c observable.ContentChange[string]) {
		fmt.Printf("inserted %v at %d (length %d)\n", c.Inserted, c.Index, list.Len())
	})

	list.Append("print")

	// Output:
	// about to insert [print] at 2 (length 2)
	// inserted [print] at 2 (length 3)
}

func ExampleList_AddEachChangeListener() {
	list := observable.NewList(1, 2, 3)

	handle := list.AddEachChangeListener(observable.PropertyChangeFunc(func(c observable.PropertyChange) {
		fmt.Printf("[%v] = %v\n", c.Key, c.Value)
	}))

	list.Set(1, 20)
	list.Append(4) // the subscription follows the new index automatically

	list.RemoveEachChangeListener(handle)
	list.Set(0, 10) // no longer observed

	// Output:
	// [1] = 20
	// [3] = 4
}
