// Package sample embeds the example function the tool analyzes by default.
package sample

import _ "embed"

// FunctionName is the function defined in Source.
const FunctionName = "analyze_user_behavior"

// OutputName is the default output file name, without extension.
const OutputName = "user_behavior_cfg_ast"

// FileName is the name Source is reported under.
const FileName = "user_analysis.py"

// Source is the standalone copy of the analyzed function.
//
//go:embed user_analysis.py
var Source []byte
