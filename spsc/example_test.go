package spsc_test

import (
	"fmt"

	"github.com/joeycumines/go-rtpendulum/spsc"
)

func ExampleRing() {
	r := spsc.New[string](2)
	fmt.Println(r.TryPush(`A`), r.TryPush(`B`), r.TryPush(`C`))
	v, _ := r.TryPop()
	fmt.Println(v)
	fmt.Println(r.TryPush(`D`))
	for {
		v, ok := r.TryPop()
		if !ok {
			break
		}
		fmt.Println(v)
	}
	//output:
	//true true false
	//A
	//true
	//B
	//D
}
