package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_StopsAtFirstError(t *testing.T) {
	res, err := Compile(context.Background(), "test.java", []byte(`
class Main {
	public static void main(String[] a) {
		int x;
		System.out.println(true);
		x = false;
	}
}
`))
	assert.Nil(t, res)
	var se *SemanticError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Msg, "print argument")
	assert.NotContains(t, err.Error(), "cannot assign")
}

// Declaration errors are reported before type errors even when they come later in the file.
func TestCompile_DeclarationErrorsFirst(t *testing.T) {
	_, err := Compile(context.Background(), "test.java", []byte(testMainClass+`
class A {
	public int f() { return true; }
}
class B extends Nope {}
`))
	var se *SemanticError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Nope", se.Name)
}

func TestCompile_ErrorKinds(t *testing.T) {
	testData := []struct {
		data              string
		expectSyntax      bool
		expectSemantic    bool
		expectUnsupported bool
	}{
		{data: `class Main { public static void main(String[] a) { x = ; } }`, expectSyntax: true},
		{data: `class Main { public static void main(String[] a) { x = 1 & 2; } }`, expectSyntax: true},
		{data: `class Main { public static void main(String[] a) { x = 1; } }`, expectSemantic: true},
		{data: `class Main { public static void main(String[] a) { System.out.println(this); } }`, expectSemantic: true},
		{data: `class Main { public static void main(String[] a) { int[] x; x = new int[1]; } }`, expectUnsupported: true},
	}
	for _, data := range testData {
		_, err := Compile(context.Background(), "test.java", []byte(data.data))
		require.Error(t, err, data.data)
		assert.Equal(t, data.expectSyntax, IsSyntaxError(err), data.data)
		assert.Equal(t, data.expectSemantic, IsSemanticError(err), data.data)
		assert.Equal(t, data.expectUnsupported, IsUnsupportedError(err), data.data)
		assert.True(t, IsSourceError(err), data.data)
	}
}

func TestAnalyze_NoModule(t *testing.T) {
	res, err := Analyze(context.Background(), "test.java", []byte(testMainClass))
	require.Nil(t, err)
	assert.Nil(t, res.Module)
	assert.Equal(t, "", res.IR())
	assert.Equal(t, "test.java", res.Name)
	assert.Equal(t, "Main", res.Goal.Main.ClassName)
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "Main.java")
	require.Nil(t, os.WriteFile(name, []byte(testMainClass), 0o644))

	res, err := CompileFile(context.Background(), name)
	require.Nil(t, err)
	assert.Contains(t, res.IR(), "call void @print_int(i32 0)")

	res, err = AnalyzeFile(context.Background(), name)
	require.Nil(t, err)
	assert.Nil(t, res.Module)

	_, err = CompileFile(context.Background(), filepath.Join(dir, "missing.java"))
	require.Error(t, err)
	assert.False(t, IsSourceError(err))
}
