package errors_test

import (
	"fmt"

	"github.com/agentstation/dimcheck/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	err := errors.NewNotFoundError("box type", "B7")

	if errors.IsNotFound(err) {
		fmt.Println(err)
	}

	// Output: box type "B7" not found
}

// Example_degenerateTriple shows how a specific sentinel travels inside a
// validation error.
func Example_degenerateTriple() {
	err := &errors.ValidationError{
		Field:   "dims",
		Message: "all three dimensions are zero",
		Err:     errors.ErrDegenerateTriple,
	}

	fmt.Println(errors.IsValidationError(err), errors.IsDegenerate(err))

	// Output: true true
}

// Example_parseError shows a log error with its line number.
func Example_parseError() {
	err := errors.NewParseError("log", "line3.log", 12, `Length "4,1" is not a number`, nil)
	fmt.Println(err)

	// Output: log parse error at line3.log:12: Length "4,1" is not a number
}

// Example_fileLocked demonstrates detecting a spreadsheet held open elsewhere.
func Example_fileLocked() {
	cause := errors.Join(errors.ErrFileLocked, errors.New("permission denied"))
	err := errors.WrapResource("export", "report", "out/line3.xlsx", cause)

	var resErr *errors.ResourceError
	if errors.As(err, &resErr) && errors.IsFileLocked(err) {
		fmt.Printf("close %s and retry\n", resErr.ID)
	}

	// Output: close out/line3.xlsx and retry
}

// Example_wrapNil shows that wrapping nil stays nil.
func Example_wrapNil() {
	fmt.Println(errors.WrapIO("close", "dims.log", nil) == nil)

	// Output: true
}

// Example_undefinedRate shows the error for a run with nothing evaluated.
func Example_undefinedRate() {
	err := fmt.Errorf("summary: %w", errors.ErrUndefinedRate)
	fmt.Println(errors.Is(err, errors.ErrUndefinedRate))

	// Output: true
}
