// Package expr implements the parameter values used by gate families:
// a sealed sum type over exact numeric values and symbolic expressions.
//
// Gate operator templates are symbolic matrices over named parameters.
// Instantiating a gate substitutes argument values for parameter names;
// numeric lowering happens lazily when an operator matrix is requested.
//
// Every elementary math function (Sin, Cos, Exp, ...) takes and returns
// Values, branching explicitly on the numeric and symbolic variants.
package expr
