package util

import (
	"reflect"
	"testing"
)

func TestSplitList(t *testing.T) {
	got := SplitList(" BTC-USD, ETH-USD,,SOL-USD ")
	want := []string{"BTC-USD", "ETH-USD", "SOL-USD"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}
	if got := SplitList(" , "); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
}
