package javascan_test

import (
	"strings"
	"testing"

	"github.com/programme-lv/activecode/internal/javascan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTwoClasses(t *testing.T) {
	src := `import java.util.*;

public class Shape {
    public double area() { return 0; }
}

class Circle extends Shape implements Comparable<Circle> {
    // a stray } in a comment
    String s = "{ not a brace";
    char c = '}';
    public int compareTo(Circle o) { return 0; }
}
`
	units, err := javascan.Split(src)
	require.NoError(t, err)
	require.Len(t, units, 2)

	assert.Equal(t, "Shape", units[0].Name)
	assert.Equal(t, "Shape.java", units[0].Filename())
	assert.Equal(t, "Circle", units[1].Name)

	for _, u := range units {
		assert.True(t, strings.HasPrefix(u.Source, "import java.util.*;\n"), u.Source)
	}
	assert.Contains(t, units[1].Source, `"{ not a brace"`)
	assert.True(t, strings.HasSuffix(units[1].Source, "}\n"))
}

func TestSplitNameBeforeExtends(t *testing.T) {
	units, err := javascan.Split("public class Foo extends Bar { }")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Foo", units[0].Name)
}

func TestSplitGenericsAndAnnotations(t *testing.T) {
	src := `@SuppressWarnings({"unchecked", "rawtypes"})
public final class Box<T extends Comparable<T>> {
    T v;
}
interface Named { String name(); }
enum Color { RED, GREEN }
record Point(int x, int y) { }
`
	units, err := javascan.Split(src)
	require.NoError(t, err)

	var names []string
	for _, u := range units {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"Box", "Named", "Color", "Point"}, names)
}

func TestSplitBlockCommentAndTextBlock(t *testing.T) {
	src := `/* class Fake { */
class Real {
    String t = """
        } } }
        """;
}
`
	units, err := javascan.Split(src)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Real", units[0].Name)
}

func TestSplitErrors(t *testing.T) {
	_, err := javascan.Split("class A {")
	assert.Error(t, err)

	_, err = javascan.Split("class A { } }")
	assert.Error(t, err)

	_, err = javascan.Split("class A { /* unterminated ")
	assert.Error(t, err)
}

func TestScannerStates(t *testing.T) {
	s := javascan.NewScanner("")
	assert.Equal(t, javascan.Normal, s.State())
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, "parentheses", javascan.InParens.String())
}
