package css

import (
	"vellum/pkg/diag"
)

// PropertyMeta carries the cascade-relevant bits for a known CSS property:
// whether changing it can force a new layout pass, and whether it can
// change a node's intrinsic (min/max-content) size. PropertyMetaFor
// exposes these bits; the cascade's inheritance pass reads Inherited
// through IsInherited.
type PropertyMeta struct {
	Inherited            bool
	CanTriggerRelayout   bool
	AffectsIntrinsicSize bool
}

// knownProperties is the property registry referenced by §4.1: every
// property this engine understands. A property absent from this map is
// not inherited and has no PropertyMeta; the stylesheet parser still keeps
// its declarations and the cascade applies them like any other.
var knownProperties = map[string]PropertyMeta{
	"display":        {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"position":        {CanTriggerRelayout: true},
	"top":             {CanTriggerRelayout: true},
	"right":           {CanTriggerRelayout: true},
	"bottom":          {CanTriggerRelayout: true},
	"left":            {CanTriggerRelayout: true},
	"float":           {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"clear":           {CanTriggerRelayout: true},
	"width":           {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"height":          {CanTriggerRelayout: true},
	"min-width":       {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"min-height":      {CanTriggerRelayout: true},
	"max-width":       {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"max-height":      {CanTriggerRelayout: true},
	"margin-top":      {CanTriggerRelayout: true},
	"margin-right":    {CanTriggerRelayout: true},
	"margin-bottom":   {CanTriggerRelayout: true},
	"margin-left":     {CanTriggerRelayout: true},
	"padding-top":     {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"padding-right":   {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"padding-bottom":  {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"padding-left":    {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"border-top-width":    {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"border-right-width":  {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"border-bottom-width": {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"border-left-width":   {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"border-style":    {},
	"border-color":    {},
	"box-sizing":      {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"flex-direction":  {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"flex-wrap":       {CanTriggerRelayout: true},
	"flex-grow":       {CanTriggerRelayout: true},
	"flex-shrink":     {CanTriggerRelayout: true},
	"flex-basis":      {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"justify-content": {CanTriggerRelayout: true},
	"align-items":     {CanTriggerRelayout: true},
	"align-self":      {CanTriggerRelayout: true},
	"gap":             {CanTriggerRelayout: true},
	"table-layout":    {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"border-collapse": {CanTriggerRelayout: true},
	"border-spacing":  {CanTriggerRelayout: true},
	"vertical-align":  {CanTriggerRelayout: true},
	"font-family":     {Inherited: true, CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"font-size":       {Inherited: true, CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"font-weight":     {Inherited: true, CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"font-style":      {Inherited: true, CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"font-variant":    {Inherited: true},
	"line-height":     {Inherited: true, CanTriggerRelayout: true},
	"letter-spacing":  {Inherited: true, CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"word-spacing":    {Inherited: true, CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"text-indent":     {Inherited: true, CanTriggerRelayout: true},
	"text-align":      {Inherited: true, CanTriggerRelayout: true},
	"text-decoration": {Inherited: true},
	"text-transform":  {Inherited: true, CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"white-space":     {Inherited: true, CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"word-break":      {Inherited: true, CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"overflow-wrap":   {Inherited: true, CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"direction":       {Inherited: true, CanTriggerRelayout: true},
	"color":           {Inherited: true},
	"background-color": {},
	"background-image":  {},
	"opacity":         {},
	"visibility":      {Inherited: true},
	"overflow":        {CanTriggerRelayout: true},
	"z-index":         {},
	"cursor":          {Inherited: true},
	"list-style-type":     {Inherited: true},
	"list-style-position": {Inherited: true, CanTriggerRelayout: true},
	"transform":       {},
	"break-before":    {CanTriggerRelayout: true},
	"break-after":     {CanTriggerRelayout: true},
	"break-inside":    {CanTriggerRelayout: true},
	"align-content":          {CanTriggerRelayout: true},
	"order":                  {CanTriggerRelayout: true},
	"content":                {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"grid-template-columns":  {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"grid-template-rows":     {CanTriggerRelayout: true, AffectsIntrinsicSize: true},
	"grid-column":            {CanTriggerRelayout: true},
	"grid-row":               {CanTriggerRelayout: true},
	"grid-gap":               {CanTriggerRelayout: true},
	"row-gap":                {CanTriggerRelayout: true},
	"column-gap":             {CanTriggerRelayout: true},
	"justify-items":          {CanTriggerRelayout: true},
}

// PropertyMetaFor looks up the cascade-relevant bits for a property. Unknown
// properties return the zero PropertyMeta and ok=false.
func PropertyMetaFor(property string) (PropertyMeta, bool) {
	meta, ok := knownProperties[property]
	return meta, ok
}

// IsInherited reports whether a property inherits from parent to child by
// default. Single source of truth for the cascade's inheritance pass.
func IsInherited(property string) bool {
	meta, ok := knownProperties[property]
	return ok && meta.Inherited
}

// NewInvalidValue builds the diagnostic for a value that failed to parse
// for a known property. The declaration is dropped; cascade proceeds.
func NewInvalidValue(property, fragment string) *diag.Error {
	return diag.New(diag.ParseError, property, "invalid value "+quote(fragment), nil)
}

// NewUnknownProperty builds the diagnostic for a declaration naming a
// property this engine has no registry entry for.
func NewUnknownProperty(property string) *diag.Error {
	return diag.New(diag.ParseError, property, "unknown property", nil)
}

func quote(s string) string { return "\"" + s + "\"" }
