// Package testutil adds test-only lifecycle hooks to components.
//
// A TestComponent is a regular component.Component that can also be reset,
// snapshotted and restored between test cases:
//
//	func TestSomething(t *testing.T) {
//	    store := memory.NewComponent()
//	    testutil.T(t).Setup(store)
//	    // store is stopped when the test ends
//	}
//
// Manager drives several components at once, starting them in order and
// stopping them in reverse.
package testutil
