package handler

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// swagRoutes reads the @Router annotation of every gin handler method in file
func swagRoutes(t *testing.T, file string) map[string]string {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, file, nil, parser.ParseComments)
	require.NoError(t, err)

	routes := map[string]string{}
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || !fn.Name.IsExported() || !takesGinContext(fn) {
			continue
		}
		doc := fn.Doc.Text()
		assert.Contains(t, doc, "@Summary", fn.Name.Name)
		assert.Contains(t, doc, "@Security     BearerAuth", fn.Name.Name)
		for _, line := range strings.Split(doc, "\n") {
			if rest, found := strings.CutPrefix(line, "@Router"); found {
				routes[fn.Name.Name] = strings.TrimSpace(rest)
			}
		}
	}
	return routes
}

func takesGinContext(fn *ast.FuncDecl) bool {
	params := fn.Type.Params.List
	if len(params) != 1 {
		return false
	}
	star, ok := params[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	sel, ok := star.X.(*ast.SelectorExpr)
	return ok && sel.Sel.Name == "Context"
}

func TestHandlers_SwaggerAnnotations(t *testing.T) {
	assert.Equal(t, map[string]string{
		"CourseSales":           "/admin/reports/course-sales [get]",
		"ExportCourseSales":     "/admin/reports/course-sales/export [get]",
		"MembershipSales":       "/admin/reports/membership-sales [get]",
		"ExportMembershipSales": "/admin/reports/membership-sales/export [get]",
		"StudentCourses":        "/student/reports/courses [get]",
		"ExportStudentCourses":  "/student/reports/courses/export [get]",
		"StudentSlots":          "/student/reports/slots [get]",
		"ExportStudentSlots":    "/student/reports/slots/export [get]",
	}, swagRoutes(t, "report.go"))

	assert.Equal(t, map[string]string{
		"Metrics": "/admin/dashboard [get]",
	}, swagRoutes(t, "dashboard.go"))
}
