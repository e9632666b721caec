// SPDX-License-Identifier: EPL-2.0

package pushback_test

import (
	"fmt"
	"io"
	"strings"

	"github.com/ik5/sndf/pushback"
)

func ExampleStream_Push() {
	s := pushback.New(strings.NewReader(".snd and the rest"))

	magic := make([]byte, 4)
	io.ReadFull(s, magic)
	s.Push(magic)

	all, _ := io.ReadAll(s)
	fmt.Println(string(all))
	// Output: .snd and the rest
}
