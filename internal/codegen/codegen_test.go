package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenalang/snc/testutil"
)

// TestS1ArithmeticAndPromotion exercises spec.md section 8's S1: a double
// variable multiplied by an int literal promotes to a checked double
// multiply and the function is wrapped as `int main()`.
func TestS1ArithmeticAndPromotion(t *testing.T) {
	src := "fn main =>\n    var pi: double = 3.14\n    var x: double = pi * 2\n"
	res := testutil.Compile(src, "s1.sn")
	require.False(t, res.Errs.HasErrors(), "%v", res.Errs.Reports())
	testutil.AssertContainsAll(t, res.C, "int main(", "rt_mul_double(pi, 2")
}

// TestS2ArrayPush exercises spec.md section 8's S2: an empty int array
// created then pushed onto lowers to the suffixed runtime array helpers.
func TestS2ArrayPush(t *testing.T) {
	src := "fn main =>\n    var arr: int[] = {}\n    arr.push(1)\n"
	res := testutil.Compile(src, "s2.sn")
	require.False(t, res.Errs.HasErrors(), "%v", res.Errs.Reports())
	testutil.AssertContainsAll(t, res.C, "rt_array_create_long(", "rt_array_push_long(")
}

// TestS3ForEachPerIterationArena exercises spec.md section 8's S3: a
// for-each loop creates a fresh arena each iteration and destroys it at a
// cleanup label.
func TestS3ForEachPerIterationArena(t *testing.T) {
	src := "fn main =>\n    var xs: int[] = {1, 2, 3}\n    for x in xs =>\n        var s: str = \"v=\" + to_string(x)\n"
	res := testutil.Compile(src, "s3.sn")
	require.False(t, res.Errs.HasErrors(), "%v", res.Errs.Reports())
	testutil.AssertContainsAll(t, res.C, "__loop_arena_", "__loop_cleanup_", "rt_arena_destroy(")
}

// TestS4ThreadSpawnSync exercises spec.md section 8's S4: spawning a
// function lowers to a wrapper-based rt_thread_spawn call, and `!` lowers
// to rt_thread_join.
func TestS4ThreadSpawnSync(t *testing.T) {
	src := "fn work(): int =>\n    return 42\nfn main =>\n    var h = @spawn work()\n    var r: int = h!\n"
	res := testutil.Compile(src, "s4.sn")
	require.False(t, res.Errs.HasErrors(), "%v", res.Errs.Reports())
	testutil.AssertContainsAll(t, res.C, "rt_thread_spawn(", "rt_thread_join(")
}

// TestS5PrivateBlockEscapeError exercises spec.md section 8's S5: a
// reference-typed assignment escaping a private block is a type error
// rather than a codegen output.
func TestS5PrivateBlockEscapeError(t *testing.T) {
	src := "fn main =>\n    var s: str = \"\"\n    private =>\n        s = \"hello\"\n"
	res := testutil.Compile(src, "s5.sn")
	require.True(t, res.Errs.HasErrors())
	assert.True(t, res.HasCode("TYP007"), "%v", res.Errs.Reports())
}
