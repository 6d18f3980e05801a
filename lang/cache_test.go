package lang

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
)

func TestParseString_Cached(t *testing.T) {
	ClearCache()

	source := "var cached = 1; print cached;"

	first, err := ParseString(t.Context(), source)
	if err != nil {
		t.Fatal(err)
	}

	second, err := ParseString(t.Context(), source)
	if err != nil {
		t.Fatal(err)
	}

	if first != second {
		t.Error("expected the cached program")
	}

	other, err := ParseString(t.Context(), source, WithMaxDepth(8))
	if err != nil {
		t.Fatal(err)
	}

	if other == first {
		t.Error("programs parsed with different limits share a cache entry")
	}

	ClearCache()

	third, err := ParseString(t.Context(), source)
	if err != nil {
		t.Fatal(err)
	}

	if third == first {
		t.Error("ClearCache did not discard the cached program")
	}
}

func TestParseString_CachesErrors(t *testing.T) {
	ClearCache()

	for range 2 {
		_, err := ParseString(t.Context(), "print (1;")
		if !errors.Is(err, ErrExpectToken) {
			t.Errorf("error = %v, want expect token", err)
		}
	}
}

func TestParseString_Concurrent(t *testing.T) {
	ClearCache()

	const workers = 16

	source := "var a = 1; { var b = a + 1; print b; }"
	programs := make([]*Program, workers)

	var wg sync.WaitGroup

	for i := range workers {
		wg.Go(func() {
			p, err := ParseString(t.Context(), source)
			if err != nil {
				t.Error(err)
			}

			programs[i] = p
		})
	}

	wg.Wait()

	for i, p := range programs {
		if p != programs[0] {
			t.Errorf("worker %d parsed a different program", i)
		}
	}
}

func TestParseReader(t *testing.T) {
	program, err := ParseReader(t.Context(),
		iotest.OneByteReader(strings.NewReader("print 1;\nprint 2;\n")))
	if err != nil {
		t.Fatal(err)
	}

	if got := program.String(); got != "(print 1)\n(print 2)\n" {
		t.Errorf("program = %q", got)
	}
}

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(t.Context(), iotest.ErrReader(errors.New("boom")))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("error = %v, want read input error", err)
	}
}
