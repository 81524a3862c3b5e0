// Command gentests writes the reduction golden cases under
// pkg/lambda/testdata/reduction. Run it from the module root.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vic/lamb/pkg/lambda"
)

type TestCase struct {
	Name   string
	Input  string
	Output string
}

func main() {
	tests := []TestCase{
		// Identity
		{"001_id", `\x. x`, `\y. y`},
		{"002_id_id", `(\x. x) (\y. y)`, `\z. z`},

		// K combinator
		{"003_k_1", `(\x y. x) a b`, "a"},
		{"004_k_2", `(\x y. y) a b`, "b"},
		{"005_erase_complex", `(\x y. x) a ((\z. z) b)`, "a"},

		// S combinator
		{"006_s_1", `(\x y z. x z (y z)) (\a b. a) (\c d. c) e`, "e"},
		{"007_s_2", `(\x y z. x z (y z)) (\a b. b) (\c d. c) e`, `\d. e`},

		// Church numerals
		{"010_zero", `(\f x. x) f x`, "x"},
		{"011_one", `(\f x. f x) f x`, "f x"},
		{"012_two", `(\f x. f (f x)) f x`, "f (f x)"},
		{"013_succ_0", `(\n f x. f (n f x)) (\f x. x) f x`, "f x"},
		{"014_succ_1", `(\n f x. f (n f x)) (\f x. f x) f x`, "f (f x)"},
		{"015_add_1_1", `(\m n f x. m f (n f x)) (\f x. f x) (\f x. f x) f x`, "f (f x)"},
		{"016_mul_2_2", `(\m n f. m (n f)) (\f x. f (f x)) (\f x. f (f x)) f x`, "f (f (f (f x)))"},

		// Logic
		{"020_true", `(\x y. x) a b`, "a"},
		{"021_false", `(\x y. y) a b`, "b"},
		{"022_not_true", `(\b. b (\x y. y) (\x y. x)) (\x y. x) a b`, "b"},
		{"023_not_false", `(\b. b (\x y. y) (\x y. x)) (\x y. y) a b`, "a"},
		{"024_and_true_true", `(\p q. p q p) (\x y. x) (\x y. x) a b`, "a"},
		{"025_and_true_false", `(\p q. p q p) (\x y. x) (\x y. y) a b`, "b"},

		// Pairs
		{"030_pair_fst", `(\p. p (\x y. x)) ((\x y f. f x y) a b)`, "a"},
		{"031_pair_snd", `(\p. p (\x y. y)) ((\x y f. f x y) a b)`, "b"},

		// Sharing
		{"051_share_app", `(\f. f (f x)) (\y. y)`, "x"},
		{"070_share_complex", `(\x. x (x a)) (\y. y)`, "a"},
		{"071_erase_shared", `(\x y. y) ((\z. z) a) b`, "b"},
		{"072_self_app", `(\x. x x) (\y. y)`, `\y. y`},

		// Nested abstractions
		{"080_nested_1", `\x y z. x y z`, `\x y z. x y z`},
		{"081_nested_app", `(\x y. x y) a b`, "a b"},

		// Free variables
		{"090_free_1", "x", "x"},
		{"091_free_app", "x y", "x y"},
		{"092_free_abs", `\y. x y`, `\y. x y`},

		// Capture
		{"100_mixed_1", `(\x. x) ((\y. y) a)`, "a"},
		{"110_capture", `(\x y. x) y`, `\z. y`},
		{"111_capture_deep", `(\x y z. x y z) y z`, `\a. y z a`},
	}

	baseDir := "pkg/lambda/testdata/reduction"
	os.MkdirAll(baseDir, 0755)

	for _, tc := range tests {
		dir := filepath.Join(baseDir, tc.Name)
		os.MkdirAll(dir, 0755)

		inTerm, err := lambda.Parse(tc.Input)
		if err != nil {
			fmt.Printf("Error parsing input for %s: %v\n", tc.Name, err)
			continue
		}

		outTerm, err := lambda.Parse(tc.Output)
		if err != nil {
			fmt.Printf("Error parsing output for %s: %v\n", tc.Name, err)
			continue
		}

		os.WriteFile(filepath.Join(dir, "input.lc"), []byte(inTerm.String()+"\n"), 0644)
		os.WriteFile(filepath.Join(dir, "output.lc"), []byte(outTerm.String()+"\n"), 0644)
	}

	fmt.Printf("Generated %d tests\n", len(tests))
}
