// Package cli implements the healthboard command-line interface.
//
// Each Cobra command is a thin shell over a workflow function (Watch, Check,
// Init, Doctor) that takes an options struct, so the workflows can be tested without
// going through flag parsing.
//
// # Command Structure
//
//	healthboard              - Same as "healthboard watch"
//	healthboard watch        - Live dashboard (needs a terminal)
//	healthboard check        - One refresh cycle, text/json/yaml report
//	healthboard init         - Write a starter .healthboard.yaml
//	healthboard doctor       - Diagnose config, backend, and services
//	healthboard version      - Print version information
//	healthboard completion   - Shell completion scripts
//
// # Exit Codes
//
// check exits 1 when the overall verdict reaches --fail-on. In text mode the
// failure is printed as a structured error; in json and yaml modes it is part
// of the document and the command returns an ExitError so nothing is printed
// twice. doctor exits 1 when any check fails.
package cli
