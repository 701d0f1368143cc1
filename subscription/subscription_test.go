package subscription

import "testing"

func strptr(s string) *string { return &s }

// TestPollRangeMatches is spec.md §8 invariant 7's Matches half.
func TestPollRangeMatches(t *testing.T) {
	cases := []struct {
		name string
		r    PollRange
		item Item
		want bool
	}{
		{"wrong partition", PollRange{Partition: "p1"}, Item{Partition: "p2", SortKey: "a"}, false},
		{"no bounds", PollRange{Partition: "p"}, Item{Partition: "p", SortKey: "anything"}, true},
		{"prefix matches", PollRange{Partition: "p", Prefix: strptr("ab")}, Item{Partition: "p", SortKey: "abcdef"}, true},
		{"prefix mismatches", PollRange{Partition: "p", Prefix: strptr("zz")}, Item{Partition: "p", SortKey: "abcdef"}, false},
		{"start inclusive", PollRange{Partition: "p", Start: strptr("m")}, Item{Partition: "p", SortKey: "m"}, true},
		{"below start", PollRange{Partition: "p", Start: strptr("m")}, Item{Partition: "p", SortKey: "a"}, false},
		{"end exclusive", PollRange{Partition: "p", End: strptr("m")}, Item{Partition: "p", SortKey: "m"}, false},
		{"below end", PollRange{Partition: "p", End: strptr("m")}, Item{Partition: "p", SortKey: "a"}, true},
		{"all bounds satisfied", PollRange{Partition: "p", Prefix: strptr("a"), Start: strptr("aa"), End: strptr("az")}, Item{Partition: "p", SortKey: "ab"}, true},
	}
	for _, tc := range cases {
		if got := tc.r.Matches(tc.item); got != tc.want {
			t.Errorf("%s: Matches() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNotifyDeliversToExactItemSubscriber(t *testing.T) {
	m := NewManager()
	ch := m.SubscribeItem(PollKey{Partition: "p", SortKey: "k"})
	m.Notify(Item{Partition: "p", SortKey: "k"})

	select {
	case got := <-ch:
		if got.Partition != "p" || got.SortKey != "k" {
			t.Fatalf("got %+v", got)
		}
	default:
		t.Fatalf("expected a delivered notification")
	}
}

func TestNotifyDoesNotCrossDeliverToOtherKeys(t *testing.T) {
	m := NewManager()
	ch := m.SubscribeItem(PollKey{Partition: "p", SortKey: "other"})
	m.Notify(Item{Partition: "p", SortKey: "k"})

	select {
	case got := <-ch:
		t.Fatalf("unexpected delivery: %+v", got)
	default:
	}
}

func TestNotifyDeliversToMatchingRangeSubscribers(t *testing.T) {
	m := NewManager()
	ch := m.SubscribeRange(PollRange{Partition: "p", Prefix: strptr("a")})
	m.Notify(Item{Partition: "p", SortKey: "abc"})

	select {
	case got := <-ch:
		if got.SortKey != "abc" {
			t.Fatalf("got %+v", got)
		}
	default:
		t.Fatalf("expected a delivered range notification")
	}
}

func TestNotifyIsLossyOnFullBuffer(t *testing.T) {
	m := NewManager()
	ch := m.SubscribeItem(PollKey{Partition: "p", SortKey: "k"})
	for i := 0; i < subscriberBuffer+5; i++ {
		m.Notify(Item{Partition: "p", SortKey: "k"})
	}
	drained := 0
	for {
		select {
		case <-ch:
			drained++
			continue
		default:
		}
		break
	}
	if drained != subscriberBuffer {
		t.Fatalf("drained %d notifications, want exactly the buffer capacity %d", drained, subscriberBuffer)
	}
}

func TestMultipleSubscribersToSameKeyEachReceive(t *testing.T) {
	m := NewManager()
	key := PollKey{Partition: "p", SortKey: "k"}
	ch1 := m.SubscribeItem(key)
	ch2 := m.SubscribeItem(key)
	m.Notify(Item{Partition: "p", SortKey: "k"})

	for _, ch := range []<-chan Item{ch1, ch2} {
		select {
		case <-ch:
		default:
			t.Fatalf("expected every subscriber of the same key to receive the notification")
		}
	}
}
