package tlv

import (
	"fmt"
	"math"
)

func ExampleTag_String() {
	fmt.Println(TagSequence)
	fmt.Println(ClassApplication | 17)
	fmt.Println(ClassContextSpecific | 3)
	fmt.Println(ClassPrivate | 1000)

	// Output:
	// [UNIVERSAL 16]
	// [APPLICATION 17]
	// [3]
	// [PRIVATE 1000]
}

func ExampleHeader_String() {
	fmt.Println(Header{Tag: TagSequence, Constructed: true, Length: LengthIndefinite})
	fmt.Println(Header{Tag: TagOctetString, Length: 3})
	fmt.Println(EndOfContents)

	// Output:
	// [UNIVERSAL 16]/c:-1
	// [UNIVERSAL 4]/p:3
	// EndOfContents
}

func ExampleCombinedLength() {
	fmt.Println(CombinedLength(42, LengthIndefinite))
	fmt.Println(CombinedLength(math.MaxInt, 2))
	fmt.Println(CombinedLength(2, 3, 5))

	// Output:
	// -1
	// -1
	// 10
}
