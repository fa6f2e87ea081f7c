/*

Checking a script

Program Text ->
	license (SPDX marker) ->
	parse (probe headers only) ->
Attach Points (ast) ->
	classify (probe catalog) ->
Points ->
	limits, modules ->
Result

Value types are described in tp,
builtins and calls are typed by analyze,
async actions are numbered by action.

*/
package compiler
