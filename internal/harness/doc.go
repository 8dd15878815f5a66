// Package harness runs order validation scenarios end to end.
//
// A scenario feeds order documents through a Gate backed by a fresh
// in-memory audit store and checks each verdict against its expect clause.
// Run ids come from a sequential generator and seq from a fresh clock, so
// the verdict log of a scenario is byte-identical across runs and can be
// compared against a golden file.
//
// # Scenario Format
//
//	name: cyclic_dependency
//	description: "Item 200 reaches itself through 300 and 400"
//	run_prefix: cycle            # optional, run ids become cycle-0001, ...
//	max_steps: 100000            # optional
//	steps:
//	  - document: orders/cycle.json    # relative to the scenario file
//	    expect:
//	      valid: false
//	      error_kind: CYCLIC_DEPENDENCY
//	      item: "200"
//	  - order:                         # inline YAML order
//	      items:
//	        - id: "100"
//	    expect:
//	      valid: true
//	      cached: false
//	assertions:
//	  - type: verdict_count
//	    count: 2
//	  - type: rejected_count
//	    count: 1
//	  - type: cache_hits
//	    count: 0
//
// # Golden Files
//
// RunWithGolden compares the canonical JSON of the verdict log against
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
