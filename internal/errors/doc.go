// Package errors provides coded, actionable errors for the console CLI.
//
// Each error has a code (e.g. "R001") registered with a category, a short
// message and a longer explanation. Router, module and config failures are
// mapped onto codes by FromError, so the CLI prints the same shape of
// message whatever went wrong:
//
//	err := errors.FromError(resolveErr)
//	fmt.Fprint(os.Stderr, err.Format())
//	// Output:
//	// ERROR R004: Route loader failed
//	//
//	//   route workflow  /workflows/abc
//	//
//	//   A loader returned an error before the page could render.
//	//
//	//   Hint: Check the API the loader calls; the error is not retried.
//
// # Codes
//
//   - R001-R009: resolution (no match, redirect loop, loader, render)
//   - R010-R019: route table construction
//   - M001-M009: page modules and manifests
//   - C001-C009: configuration
package errors
