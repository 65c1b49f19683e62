package starlark_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gostarlark "go.starlark.net/starlark"

	"github.com/leapstack-labs/leapqa/internal/starlark"
	"github.com/leapstack-labs/leapqa/pkg/dataset"
)

func TestCompileRejectsInvalidSyntax(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"dangling operator", "age >"},
		{"statement not expression", "x = 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := starlark.Compile("test", tt.src)
			assert.Error(t, err)
		})
	}
}

func TestEvalBool(t *testing.T) {
	expr, err := starlark.Compile("test", "age >= 18")
	require.NoError(t, err)

	globals := gostarlark.StringDict{"age": gostarlark.MakeInt(30)}
	holds, err := expr.EvalBool(globals)
	require.NoError(t, err)
	assert.True(t, holds)

	globals = gostarlark.StringDict{"age": gostarlark.MakeInt(12)}
	holds, err = expr.EvalBool(globals)
	require.NoError(t, err)
	assert.False(t, holds)
}

func TestEvalBoolRuntimeError(t *testing.T) {
	expr, err := starlark.Compile("test", "1 / n")
	require.NoError(t, err)

	_, err = expr.EvalBool(gostarlark.StringDict{"n": gostarlark.MakeInt(0)})
	require.Error(t, err)

	var ee *starlark.EvalError
	require.ErrorAs(t, err, &ee)
	assert.Contains(t, ee.Message, "division by zero")

	// undefined variable is a runtime error too
	_, err = expr.EvalBool(gostarlark.StringDict{})
	assert.Error(t, err)
}

func TestRowGlobals(t *testing.T) {
	row := map[string]dataset.Value{
		"age":  dataset.Int(30),
		"name": dataset.String("ada"),
		"bio":  dataset.Null(),
	}
	globals := starlark.RowGlobals(row, 4)

	assert.Equal(t, gostarlark.MakeInt(30), globals["age"])
	assert.Equal(t, gostarlark.String("ada"), globals["name"])
	assert.Equal(t, gostarlark.None, globals["bio"])
	assert.Equal(t, gostarlark.MakeInt(4), globals["idx"])

	rowDict, ok := globals["row"].(*gostarlark.Dict)
	require.True(t, ok)
	v, found, err := rowDict.Get(gostarlark.String("age"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, gostarlark.MakeInt(30), v)
}

func TestRowGlobalsReservedNames(t *testing.T) {
	row := map[string]dataset.Value{
		"idx": dataset.Int(99),
	}
	globals := starlark.RowGlobals(row, 1)

	// "idx" keeps the row index; the column stays reachable via the dict
	assert.Equal(t, gostarlark.MakeInt(1), globals["idx"])

	rowDict := globals["row"].(*gostarlark.Dict)
	v, found, err := rowDict.Get(gostarlark.String("idx"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, gostarlark.MakeInt(99), v)
}

func TestThreadPoolReuse(t *testing.T) {
	pool := starlark.NewThreadPool(2)
	assert.Equal(t, 0, pool.Size())

	t1 := pool.Get("a")
	t2 := pool.Get("b")
	t3 := pool.Get("c")

	pool.Put(t1)
	pool.Put(t2)
	pool.Put(t3) // pool is full, discarded
	assert.Equal(t, 2, pool.Size())

	got := pool.Get("again")
	require.NotNil(t, got)
	assert.Equal(t, "again", got.Name)
	assert.Equal(t, 1, pool.Size())
}

func TestThreadPoolDefaultSize(t *testing.T) {
	pool := starlark.NewThreadPool(0)

	want := runtime.GOMAXPROCS(0)
	threads := make([]*gostarlark.Thread, want+1)
	for i := range threads {
		threads[i] = pool.Get("t")
	}
	for _, th := range threads {
		pool.Put(th)
	}

	// one parked thread per evaluator goroutine, no more
	assert.Equal(t, want, pool.Size())
}
