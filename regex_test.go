package sfjit

import "testing"

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{"simple literal", "hello", false},
		{"class", "[abc]", false},
		{"negated class", "[^abc]", false},
		{"alternation", "foo|bar", false},
		{"repetition", "a+", false},
		{"bounded repeat", "a{2,4}", false},
		{"id tag", "(ab){3!}", false},
		{"unbalanced group", "(", true},
		{"unbalanced class", "[abc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := Compile(tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compile(%q) error = %v, wantErr %v", tt.pattern, err, tt.wantErr)
			}
			if !tt.wantErr && re == nil {
				t.Error("Compile() returned nil with no error")
			}
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile() did not panic on an invalid pattern")
		}
	}()
	MustCompile("(")
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    bool
	}{
		{"literal hit", "hello", "say hello there", true},
		{"literal miss", "hello", "goodbye", false},
		{"class hit", "[0-9]+", "age 42", true},
		{"class miss", "[0-9]+", "no digits here", false},
		{"alternation", "cat|dog", "I have a dog", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			if got := re.Match([]byte(tt.input)); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFindIndex(t *testing.T) {
	re := MustCompile("a(b|c)*d")
	loc := re.FindIndex([]byte("xxabbcdxx"))
	if loc == nil || loc[0] != 2 || loc[1] != 7 {
		t.Errorf("FindIndex() = %v, want [2 7]", loc)
	}
}

func TestFindNoMatch(t *testing.T) {
	re := MustCompile("z+")
	if got := re.Find([]byte("no such letter here")); got != nil {
		t.Errorf("Find() = %q, want nil", got)
	}
}

func TestFindID(t *testing.T) {
	re := MustCompile("(ab){3!}")
	begin, end, id := re.FindID([]byte("ababab"))
	if begin != 0 || end != 6 || id != 3 {
		t.Errorf("FindID() = (%d, %d, %d), want (0, 6, 3)", begin, end, id)
	}
}

func TestStreamingMatchesOneShot(t *testing.T) {
	re := MustCompile("a(b|c)*d")
	input := []byte("xxabbcdxx")

	oneShot := re.BeginMatch()
	oneShot.ContinueMatch(input)
	wantBegin, wantEnd, wantID := oneShot.GetResult()

	chunked := re.BeginMatch()
	chunked.ContinueMatch(input[:4])
	chunked.ContinueMatch(input[4:])
	gotBegin, gotEnd, gotID := chunked.GetResult()

	if gotBegin != wantBegin || gotEnd != wantEnd || gotID != wantID {
		t.Errorf("chunked GetResult() = (%d, %d, %d), want (%d, %d, %d)",
			gotBegin, gotEnd, gotID, wantBegin, wantEnd, wantID)
	}
}

func TestMatchReset(t *testing.T) {
	re := MustCompile("ab")
	m := re.BeginMatch()
	m.ContinueMatch([]byte("xxabxx"))
	if begin, _, _ := m.GetResult(); begin != 2 {
		t.Fatalf("GetResult() begin = %d, want 2", begin)
	}
	m.Reset()
	if begin, _, _ := m.GetResult(); begin != -1 {
		t.Errorf("GetResult() after Reset() begin = %d, want -1", begin)
	}
	m.ContinueMatch([]byte("zzabzz"))
	if begin, _, _ := m.GetResult(); begin != 2 {
		t.Errorf("GetResult() after Reset()+ContinueMatch() begin = %d, want 2", begin)
	}
}

func TestString(t *testing.T) {
	re := MustCompile("a+b*")
	if got := re.String(); got != "a+b*" {
		t.Errorf("String() = %q, want %q", got, "a+b*")
	}
}
