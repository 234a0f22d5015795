package ui

import "strings"

type Variant string
type Size string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
	VariantGhost       Variant = "ghost"

	SizeDefault Size = "default"
	SizeIcon    Size = "icon"
)

const baseButtonClass = "btn inline-flex items-center justify-center rounded-md text-sm font-medium transition-colors disabled:opacity-50 disabled:pointer-events-none"

var variantClasses = map[Variant]string{
	VariantDefault:     "btn-default bg-pink-500 text-white hover:bg-pink-600",
	VariantDestructive: "btn-destructive bg-red-500 text-white hover:bg-red-600",
	VariantGhost:       "btn-ghost bg-transparent hover:bg-pink-50",
}

var sizeClasses = map[Size]string{
	SizeDefault: "h-10 px-4 py-2",
	SizeIcon:    "h-10 w-10",
}

/*
ButtonClass builds the class list for a button. Unknown variants and sizes
fall back to the defaults. Extra classes are appended as given.
*/
func ButtonClass(variant Variant, size Size, extra ...string) string {
	v, ok := variantClasses[variant]

	if !ok {
		v = variantClasses[VariantDefault]
	}

	s, ok := sizeClasses[size]

	if !ok {
		s = sizeClasses[SizeDefault]
	}

	parts := []string{baseButtonClass, v, s}

	for _, e := range extra {
		if e = strings.TrimSpace(e); e != "" {
			parts = append(parts, e)
		}
	}

	return strings.Join(parts, " ")
}
