package model

import "testing"

func TestKindParentChildInverse(t *testing.T) {
	for _, k := range []Kind{KindUser, KindPantry, KindCategory, KindItem, KindShareRequest} {
		if child, ok := k.Child(); ok {
			parent, ok := child.Parent()
			if !ok || parent != k {
				t.Errorf("%s.Child() = %s but %s.Parent() = %v", k, child, child, parent)
			}
		}
	}
}

func TestKindChain(t *testing.T) {
	// user -> pantry -> category -> item, then the chain ends
	k := KindUser
	var chain []string
	for {
		chain = append(chain, k.String())
		child, ok := k.Child()
		if !ok {
			break
		}
		k = child
	}
	want := []string{"user", "pantry", "category", "item"}
	if len(chain) != len(want) {
		t.Fatalf("chain = %v, want %v", chain, want)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Fatalf("chain = %v, want %v", chain, want)
		}
	}
}

func TestShareRequestHasNoParent(t *testing.T) {
	if _, ok := KindShareRequest.Parent(); ok {
		t.Error("share requests are not part of the containment hierarchy")
	}
	if _, ok := KindShareRequest.Child(); ok {
		t.Error("share requests have no children")
	}
}
