package internal

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkerTestClasses are the classes statements in checker tests run against: C <- B <- A and D.
const checkerTestClasses = `
class C {
	public int take(C x) { return 1; }
}
class B extends C {}
class A extends B {}
class D {}
`

const checkerTestMethod = `
class T {
	int i;
	boolean b;
	int[] ia;
	boolean[] ba;
	C c;
	B bb;
	A aa;
	D d;
	T t;

	public int m(int p) {
		%s
		return 0;
	}
}
`

func checkTestSource(src string) error {
	_, err := Analyze(context.Background(), "test.java", []byte(src))
	return err
}

func TestCheck_Statements(t *testing.T) {
	testData := []struct {
		data      string
		expectErr bool
	}{
		{data: `b = true && false;`, expectErr: false},
		{data: `b = 1 && true;`, expectErr: true},
		{data: `b = true && 1;`, expectErr: true},
		{data: `b = 1 < 2;`, expectErr: false},
		{data: `b = true < 2;`, expectErr: true},
		{data: `i = 1 < 2;`, expectErr: true},
		{data: `i = 1 + 2 * 3 - 4;`, expectErr: false},
		{data: `i = 1 + true;`, expectErr: true},
		{data: `i = b * 2;`, expectErr: true},
		{data: `i = (1 + 2) * p;`, expectErr: false},
		{data: `i = ia[0];`, expectErr: false},
		{data: `i = i[0];`, expectErr: true},
		{data: `i = ia[true];`, expectErr: true},
		{data: `b = ba[1];`, expectErr: false},
		{data: `i = ba[1];`, expectErr: true},
		{data: `i = ia.length;`, expectErr: false},
		{data: `i = ba.length;`, expectErr: false},
		{data: `i = i.length;`, expectErr: true},
		{data: `i = this.m(1);`, expectErr: false},
		{data: `i = this.m();`, expectErr: true},
		{data: `i = this.m(1, 2);`, expectErr: true},
		{data: `i = this.m(true);`, expectErr: true},
		{data: `i = this.nope(1);`, expectErr: true},
		{data: `i = i.m(1);`, expectErr: true},
		{data: `b = this.m(1);`, expectErr: true},
		{data: `i = c.take(aa);`, expectErr: false},
		{data: `i = c.take(d);`, expectErr: true},
		{data: `i = aa.take(bb);`, expectErr: false},
		{data: `i = d.take(c);`, expectErr: true},
		{data: `c = aa;`, expectErr: false},
		{data: `c = bb;`, expectErr: false},
		{data: `c = c;`, expectErr: false},
		{data: `aa = c;`, expectErr: true},
		{data: `c = d;`, expectErr: true},
		{data: `t = this;`, expectErr: false},
		{data: `c = this;`, expectErr: true},
		{data: `ia = new int[10];`, expectErr: false},
		{data: `ia = new int[true];`, expectErr: true},
		{data: `ba = new boolean[i];`, expectErr: false},
		{data: `ia = new boolean[1];`, expectErr: true},
		{data: `ia = ba;`, expectErr: true},
		{data: `aa = new A();`, expectErr: false},
		{data: `c = new A();`, expectErr: false},
		{data: `aa = new C();`, expectErr: true},
		{data: `aa = new Nope();`, expectErr: true},
		{data: `ia[0] = 1;`, expectErr: false},
		{data: `ia[0] = true;`, expectErr: true},
		{data: `ba[0] = true;`, expectErr: false},
		{data: `i[0] = 1;`, expectErr: true},
		{data: `ia[b] = 1;`, expectErr: true},
		{data: `if (b) i = 1; else i = 2;`, expectErr: false},
		{data: `if (i) i = 1; else i = 2;`, expectErr: true},
		{data: `if (b) i = 1; else i = true;`, expectErr: true},
		{data: `while (b) i = i + 1;`, expectErr: false},
		{data: `while (1) {}`, expectErr: true},
		{data: `while (b) { b = 1; }`, expectErr: true},
		{data: `System.out.println(i);`, expectErr: false},
		{data: `System.out.println(ia[p]);`, expectErr: false},
		{data: `System.out.println(b);`, expectErr: true},
		{data: `System.out.println(c);`, expectErr: true},
		{data: `b = !b;`, expectErr: false},
		{data: `b = !(i < p);`, expectErr: false},
		{data: `b = !i;`, expectErr: true},
		{data: `undefinedVar = 1;`, expectErr: true},
		{data: `i = undefinedVar;`, expectErr: true},
		{data: `p = i;`, expectErr: false},
		{data: `{ i = 1; { b = false; } }`, expectErr: false},
	}
	for _, data := range testData {
		src := testMainClass + checkerTestClasses + fmt.Sprintf(checkerTestMethod, data.data)
		err := checkTestSource(src)
		if !data.expectErr {
			assert.Nil(t, err, data.data)
			continue
		}
		var se *SemanticError
		assert.ErrorAs(t, err, &se, data.data)
	}
}

func TestCheck_Declarations(t *testing.T) {
	testData := []struct {
		data      string
		expectErr bool
	}{
		{data: `class X { public C f() { return new A(); } }`, expectErr: false},
		{data: `class X { public A f() { C c; return c; } }`, expectErr: true},
		{data: `class X { public int f() { return true; } }`, expectErr: true},
		{data: `class X { public int[] f() { return new int[1]; } }`, expectErr: false},
		{data: `class X { public Nope f() { return 1; } }`, expectErr: true},
		{data: `class X { Nope n; }`, expectErr: true},
		{data: `class X { public int f(Nope n) { return 1; } }`, expectErr: true},
		{data: `class X { public int f() { Nope n; return 1; } }`, expectErr: true},
		// Classes may be used before they are declared.
		{data: `class X { Y y; public Y f() { return y; } } class Y {}`, expectErr: false},
		{data: `class X { public int f() { return this.g(); } public int g() { return 1; } }`, expectErr: false},
		{data: `class X extends A { public int f() { return this.take(this); } }`, expectErr: false},
	}
	for _, data := range testData {
		err := checkTestSource(testMainClass + checkerTestClasses + data.data)
		if !data.expectErr {
			assert.Nil(t, err, data.data)
			continue
		}
		var se *SemanticError
		assert.ErrorAs(t, err, &se, data.data)
	}
}

func TestCheck_MainClass(t *testing.T) {
	testData := []struct {
		data      string
		expectErr bool
	}{
		{data: `int x; x = 1; System.out.println(x + 1);`, expectErr: false},
		{data: `int x; x = true;`, expectErr: true},
		{data: `System.out.println(new C().take(new A()));`, expectErr: false},
		{data: `Nope n;`, expectErr: true},
		{data: `System.out.println(a);`, expectErr: true},
	}
	for _, data := range testData {
		src := fmt.Sprintf(`
class Main {
	public static void main(String[] a) {
		%s
	}
}
`, data.data) + checkerTestClasses
		err := checkTestSource(src)
		if !data.expectErr {
			assert.Nil(t, err, data.data)
			continue
		}
		var se *SemanticError
		assert.ErrorAs(t, err, &se, data.data)
	}
}

func TestCheck_FillsClassType(t *testing.T) {
	res, err := Analyze(context.Background(), "test.java", []byte(testMainClass+checkerTestClasses+`
class X {
	A a;
	int i;
	public int f(B b) {
		D d;
		return 1;
	}
}
`))
	require.Nil(t, err)
	st := res.Symbols
	x := mustClass(t, st, "X")

	a, _ := st.LookupField(x, "a")
	assert.Equal(t, mustClass(t, st, "A").ID(), a.ClassType)
	i, _ := st.LookupField(x, "i")
	assert.Equal(t, NoEntry, i.ClassType)

	f, _ := st.LookupMethod(x, "f")
	b, _ := st.LookupForUse(f, "b")
	assert.Equal(t, mustClass(t, st, "B").ID(), b.ClassType)
	d, _ := st.LookupForUse(f, "d")
	assert.Equal(t, mustClass(t, st, "D").ID(), d.ClassType)
}

func TestCheck_ErrorLine(t *testing.T) {
	err := checkTestSource(`class Main {
	public static void main(String[] a) {
	}
}
class A {
	int x;
	Nope n;
}`)
	var se *SemanticError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 7, se.Line)
	assert.Equal(t, "semantic error at line 7: class Nope is not declared", se.Error())

	err = checkTestSource(`class Main {
	public static void main(String[] a) {
	}
}
class A {
	public int f(int a,
		Nope n) { return a; }
}`)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 7, se.Line)

	// Statements carry no position.
	err = checkTestSource(`class Main {
	public static void main(String[] a) {
		System.out.println(true);
	}
}`)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 0, se.Line)
	assert.Equal(t, "semantic error: print argument must be int, got boolean", se.Error())
}
