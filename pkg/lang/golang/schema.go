package golang

import (
	"go/ast"
	"go/token"
	"reflect"
)

// fieldSpec names one comparable struct field of an AST node type.
type fieldSpec struct {
	name  string
	index int
}

// nodeSchema lists the comparable fields of one go/ast node type in
// declaration order.
type nodeSchema struct {
	kind   string
	fields []fieldSpec
}

// prototypes enumerates every concrete go/ast node type a parsed file can
// contain. The schema table is derived from their struct definitions, so
// field names and order always agree with the library itself.
var prototypes = []ast.Node{
	&ast.ArrayType{}, &ast.AssignStmt{}, &ast.BadDecl{}, &ast.BadExpr{},
	&ast.BadStmt{}, &ast.BasicLit{}, &ast.BinaryExpr{}, &ast.BlockStmt{},
	&ast.BranchStmt{}, &ast.CallExpr{}, &ast.CaseClause{}, &ast.ChanType{},
	&ast.CommClause{}, &ast.CompositeLit{}, &ast.DeclStmt{},
	&ast.DeferStmt{}, &ast.Ellipsis{}, &ast.EmptyStmt{}, &ast.ExprStmt{},
	&ast.Field{}, &ast.FieldList{}, &ast.File{}, &ast.ForStmt{},
	&ast.FuncDecl{}, &ast.FuncLit{}, &ast.FuncType{}, &ast.GenDecl{},
	&ast.GoStmt{}, &ast.Ident{}, &ast.IfStmt{}, &ast.ImportSpec{},
	&ast.IncDecStmt{}, &ast.IndexExpr{}, &ast.IndexListExpr{},
	&ast.InterfaceType{}, &ast.KeyValueExpr{}, &ast.LabeledStmt{},
	&ast.MapType{}, &ast.ParenExpr{}, &ast.RangeStmt{}, &ast.ReturnStmt{},
	&ast.SelectStmt{}, &ast.SelectorExpr{}, &ast.SendStmt{},
	&ast.SliceExpr{}, &ast.StarExpr{}, &ast.StructType{},
	&ast.SwitchStmt{}, &ast.TypeAssertExpr{}, &ast.TypeSpec{},
	&ast.TypeSwitchStmt{}, &ast.UnaryExpr{}, &ast.ValueSpec{},
}

// Field types that never carry program structure: raw positions, comment
// attachments, and the deprecated identifier-resolution graph.
var (
	tokenPosType     = reflect.TypeOf(token.Pos(0))
	tokenTokenType   = reflect.TypeOf(token.ILLEGAL)
	chanDirType      = reflect.TypeOf(ast.ChanDir(0))
	commentGroupType = reflect.TypeOf((*ast.CommentGroup)(nil))
	commentListType  = reflect.TypeOf([]*ast.CommentGroup(nil))
	scopeType        = reflect.TypeOf((*ast.Scope)(nil))
	objectType       = reflect.TypeOf((*ast.Object)(nil))
)

// flagPosFields are position fields whose validity encodes syntax rather
// than layout: the variadic marker of a call and the assign marker of a
// type alias. They stay in the schema and convert to booleans.
var flagPosFields = map[string]bool{
	"CallExpr.Ellipsis": true,
	"TypeSpec.Assign":   true,
}

// fileDerivedFields are ast.File fields that merely index into Decls and
// would double-count any difference.
var fileDerivedFields = map[string]bool{
	"Imports":    true,
	"Unresolved": true,
}

// schemas maps each prototype's struct type to its schema. Built once at
// package load.
var schemas = buildSchemas()

func buildSchemas() map[reflect.Type]nodeSchema {
	table := make(map[reflect.Type]nodeSchema, len(prototypes))

	for _, prototype := range prototypes {
		structType := reflect.TypeOf(prototype).Elem()
		table[structType] = nodeSchema{
			kind:   structType.Name(),
			fields: schemaFields(structType),
		}
	}

	return table
}

func schemaFields(structType reflect.Type) []fieldSpec {
	specs := make([]fieldSpec, 0, structType.NumField())

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if skipField(structType.Name(), field) {
			continue
		}

		specs = append(specs, fieldSpec{name: field.Name, index: i})
	}

	return specs
}

func skipField(owner string, field reflect.StructField) bool {
	if flagPosFields[owner+"."+field.Name] {
		return false
	}

	switch field.Type {
	case tokenPosType, commentGroupType, commentListType, scopeType, objectType:
		return true
	}

	if owner == "File" && fileDerivedFields[field.Name] {
		return true
	}

	return false
}
