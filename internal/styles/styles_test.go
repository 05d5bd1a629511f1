package styles

import "testing"

func TestCatalogIndexesAreContiguous(t *testing.T) {
	for i, st := range All() {
		if st.Index != i {
			t.Fatalf("style %d carries index %d", i, st.Index)
		}
		if st.Name == "" || st.Prompt == "" {
			t.Fatalf("style %d incomplete: %+v", i, st)
		}
	}
}

func TestValidateBounds(t *testing.T) {
	if err := Validate(0); err != nil {
		t.Fatalf("index 0 must be valid: %v", err)
	}
	if err := Validate(Count() - 1); err != nil {
		t.Fatalf("last index must be valid: %v", err)
	}
	if err := Validate(-1); err == nil {
		t.Fatal("negative index must be rejected")
	}
	if err := Validate(Count()); err == nil {
		t.Fatal("out-of-range index must be rejected")
	}
}
