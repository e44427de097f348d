package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclare(t *testing.T) {
	testData := []struct {
		data         string
		expectErr    bool
		expectedName string
	}{
		{data: `class A {} class B extends A {}`, expectErr: false},
		{data: `class B extends A {} class A {}`, expectErr: true, expectedName: "A"},
		{data: `class A {} class A {}`, expectErr: true, expectedName: "A"},
		{data: `class Main {}`, expectErr: true, expectedName: "Main"},
		{data: `class A { int x; boolean x; }`, expectErr: true, expectedName: "x"},
		{data: `class A { int x; public int x() { return 1; } }`, expectErr: false},
		{data: `class A { public int f() { return 1; } public int f() { return 2; } }`, expectErr: true, expectedName: "f"},
		{data: `class A { public int f(int a, int a) { return 1; } }`, expectErr: true, expectedName: "a"},
		{data: `class A { public int f(int a) { int a; return 1; } }`, expectErr: true, expectedName: "a"},
		{data: `class A { public int f() { int a; boolean a; return 1; } }`, expectErr: true, expectedName: "a"},
		{data: `class A { int a; public int f(int a) { return a; } }`, expectErr: false},
		{data: `class A { int a; } class B extends A { boolean a; }`, expectErr: false},
		// Overrides must keep the exact signature.
		{
			data: `class A { public int f(int a) { return a; } }
				class B extends A { public int f(int b) { return b; } }`,
			expectErr: false,
		},
		{
			data: `class A { public int f(int a) { return a; } }
				class B extends A { public boolean f(int a) { return true; } }`,
			expectErr: true, expectedName: "f",
		},
		{
			data: `class A { public int f(int a) { return a; } }
				class B extends A { public int f(boolean a) { return 1; } }`,
			expectErr: true, expectedName: "f",
		},
		{
			data: `class A { public int f(int a) { return a; } }
				class B extends A { public int f(int a, int b) { return a; } }`,
			expectErr: true, expectedName: "f",
		},
		{
			data: `class A { public int f(int a) { return a; } }
				class B extends A { }
				class C extends B { public int f() { return 1; } }`,
			expectErr: true, expectedName: "f",
		},
		{
			data: `class C {} class B extends C {}
				class A { public C f() { return new C(); } }
				class D extends A { public B f() { return new B(); } }`,
			expectErr: true, expectedName: "f",
		},
		// A bad override is reported before a duplicate local of the same method.
		{
			data: `class A { public int f(int a) { return a; } }
				class B extends A { public boolean f(int a) { int x; int x; return true; } }`,
			expectErr: true, expectedName: "f",
		},
		{
			data: `class A { public int f(int a) { return a; } }
				class B extends A { public int f(int a) { int x; int x; return 1; } }`,
			expectErr: true, expectedName: "x",
		},
	}
	for _, data := range testData {
		goal, err := Parse(context.Background(), "test.java", []byte(testMainClass+data.data))
		require.Nil(t, err, data.data)
		_, err = Declare(context.Background(), goal)
		if !data.expectErr {
			assert.Nil(t, err, data.data)
			continue
		}
		var se *SemanticError
		require.ErrorAs(t, err, &se, data.data)
		assert.Equal(t, data.expectedName, se.Name, data.data)
	}
}

func TestDeclare_ErrorLine(t *testing.T) {
	testData := []struct {
		data         string
		expectedLine int
		expectedMsg  string
	}{
		{
			data: `class Main {
	public static void main(String[] a) {
	}
}
class A {
	int x;
	boolean x;
}`,
			expectedLine: 7,
			expectedMsg:  "semantic error at line 7: field x is already declared in class A",
		},
		{
			data: `class Main {
	public static void main(String[] a) {
	}
}
class A {
	public int f(int a,
		int a) { return a; }
}`,
			expectedLine: 7,
			expectedMsg:  "semantic error at line 7: parameter a is already declared in method f",
		},
		{
			data: `class Main {
	public static void main(String[] a) {
	}
}

class B extends A {
}`,
			expectedLine: 6,
			expectedMsg:  "semantic error at line 6: superclass A of class B is not declared",
		},
		{
			data: `class Main {
	public static void main(String[] a) {
	}
}
class A { public int f() { return 1; } }
class B extends A {
	int y;
	public boolean f() { return true; }
}`,
			expectedLine: 8,
			expectedMsg:  "semantic error at line 8: method B.f is incompatible with A.f it overrides",
		},
	}
	for _, data := range testData {
		goal, err := Parse(context.Background(), "test.java", []byte(data.data))
		require.Nil(t, err, data.data)
		_, err = Declare(context.Background(), goal)
		var se *SemanticError
		require.ErrorAs(t, err, &se, data.data)
		assert.Equal(t, data.expectedLine, se.Line, data.data)
		assert.Equal(t, data.expectedMsg, se.Error(), data.data)
	}
}

func TestDeclare_FieldLayout(t *testing.T) {
	st := declareTestSource(t, testMainClass+`
class A {
	boolean y;
}
class B extends A {
	int x;
}
`)
	a, b := mustClass(t, st, "A"), mustClass(t, st, "B")

	require.Len(t, a.FieldOffsets, 1)
	assert.Equal(t, "y", st.Entry(a.FieldOffsets[0].Member).Name())
	assert.Equal(t, 0, a.FieldOffsets[0].Offset)

	require.Len(t, b.FieldOffsets, 1)
	assert.Equal(t, "x", st.Entry(b.FieldOffsets[0].Member).Name())
	assert.Equal(t, 1, b.FieldOffsets[0].Offset)
	assert.Equal(t, 5, b.NextFieldOffset)
}

func TestDeclare_Offsets(t *testing.T) {
	st := declareTestSource(t, testMainClass+`
class A {
	int i;
	boolean b;
	int[] arr;
	A next;
	public int f() { return 0; }
	public int g() { return 0; }
}
class Empty extends A {}
class C extends Empty {
	boolean[] flags;
	public int g() { return 1; }
	public int h() { return 2; }
}
`)
	offsets := func(c *ClassEntry, members []MemberOffset) map[string]int {
		ret := map[string]int{}
		for _, o := range members {
			ret[st.Entry(o.Member).Name()] = o.Offset
		}
		return ret
	}

	a := mustClass(t, st, "A")
	assert.Equal(t, map[string]int{"i": 0, "b": 4, "arr": 5, "next": 13}, offsets(a, a.FieldOffsets))
	assert.Equal(t, map[string]int{"f": 0, "g": 8}, offsets(a, a.MethodOffsets))
	assert.Equal(t, 21, a.NextFieldOffset)
	assert.Equal(t, 16, a.NextMethodOffset)

	// A class without members passes its superclass's layout through.
	empty := mustClass(t, st, "Empty")
	assert.Empty(t, empty.FieldOffsets)
	assert.Equal(t, 21, empty.NextFieldOffset)
	assert.Equal(t, 16, empty.NextMethodOffset)

	// The overriding g gets no offset of its own.
	c := mustClass(t, st, "C")
	assert.Equal(t, map[string]int{"flags": 21}, offsets(c, c.FieldOffsets))
	assert.Equal(t, map[string]int{"h": 16}, offsets(c, c.MethodOffsets))

	main := mustClass(t, st, "Main")
	assert.Empty(t, main.FieldOffsets)
	assert.Empty(t, main.MethodOffsets)

	flags, ok := st.LookupField(c, "flags")
	require.True(t, ok)
	offset, ok := st.FieldOffset(flags)
	assert.True(t, ok)
	assert.Equal(t, 21, offset)
}
