package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ReserveVec_PushOnly(t *testing.T) {
	rv := NewReserveVec[string]()
	rv.Push("a")
	rv.Push("b")
	rv.Push("c")

	assert.Equal(t, []string{"a", "b", "c"}, rv.Finalize())
}

func Test_ReserveVec_ReserveThenFill(t *testing.T) {
	rv := NewReserveVec[string]()

	parent := rv.ReserveNext()
	rv.Push("child1")
	rv.Push("child2")
	rv.InsertAtReserved(parent, "parent")

	assert.Equal(t, []string{"parent", "child1", "child2"}, rv.Finalize())
}

func Test_ReserveVec_UnfilledReservationDropped(t *testing.T) {
	rv := NewReserveVec[string]()
	rv.Push("a")
	rv.ReserveNext()
	rv.Push("b")

	assert.Equal(t, []string{"a", "b"}, rv.Finalize())
}

func Test_ReserveVec_Truncate(t *testing.T) {
	rv := NewReserveVec[string]()
	rv.Push("a")
	mark := rv.Len()
	rv.Push("b")
	rv.Push("c")

	rv.Truncate(mark)

	assert.Equal(t, []string{"a"}, rv.Finalize())
	assert.Equal(t, mark, rv.Len())
}

// Test_ReserveVec_OutOfOrderFill exercises spec property #5 exactly:
// push(a); r1=reserve; push(b); r2=reserve; fill(r2,d); fill(r1,c) must
// finalize to [a, c, b, d] -- reservations are filled out of declaration
// order (r2 before r1), and Finalize must still respect slot position, not
// fill order.
func Test_ReserveVec_OutOfOrderFill(t *testing.T) {
	rv := NewReserveVec[string]()

	rv.Push("a")
	r1 := rv.ReserveNext()
	rv.Push("b")
	r2 := rv.ReserveNext()

	rv.InsertAtReserved(r2, "d")
	rv.InsertAtReserved(r1, "c")

	assert.Equal(t, []string{"a", "c", "b", "d"}, rv.Finalize())
}

// Test_ReserveVec_ThreeReservationsOutOfOrder extends the same out-of-order
// fill scenario to three reservations interleaved with plain pushes, filled
// in reverse declaration order.
func Test_ReserveVec_ThreeReservationsOutOfOrder(t *testing.T) {
	rv := NewReserveVec[string]()

	r1 := rv.ReserveNext()
	rv.Push("a")
	r2 := rv.ReserveNext()
	rv.Push("b")
	r3 := rv.ReserveNext()
	rv.Push("c")

	rv.InsertAtReserved(r3, "3")
	rv.InsertAtReserved(r2, "2")
	rv.InsertAtReserved(r1, "1")

	assert.Equal(t, []string{"1", "a", "2", "b", "3", "c"}, rv.Finalize())
}

func Test_ReserveVec_NestedReservations(t *testing.T) {
	// Models a parent rule that reserves its slot before parsing a child
	// rule, which itself reserves its slot before parsing a grandchild --
	// the depth-first pre-order shape Tokenize relies on.
	rv := NewReserveVec[string]()

	parent := rv.ReserveNext()
	child := rv.ReserveNext()
	rv.Push("grandchild")
	rv.InsertAtReserved(child, "child")
	rv.InsertAtReserved(parent, "parent")

	assert.Equal(t, []string{"parent", "child", "grandchild"}, rv.Finalize())
}
