// Package graph exposes the single GraphQL query/mutation endpoint over
// the department and student services.
package graph

import (
	"context"
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/youngtech-edu/records-api/internal/models"
	"github.com/youngtech-edu/records-api/internal/service"
)

// DepartmentService is the department surface the schema resolves against.
type DepartmentService interface {
	List(ctx context.Context) ([]models.Department, error)
	Get(ctx context.Context, id string) (*models.Department, error)
	Create(ctx context.Context, input service.DepartmentInput) (*models.Department, error)
	Update(ctx context.Context, id string, input service.DepartmentInput) (*models.Department, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// StudentService is the student surface the schema resolves against.
type StudentService interface {
	List(ctx context.Context) ([]models.StudentDetail, error)
	Get(ctx context.Context, id string) (*models.StudentDetail, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]models.Student, error)
	Create(ctx context.Context, input service.StudentInput) (*models.StudentDetail, error)
	Update(ctx context.Context, id string, input service.StudentInput) (*models.StudentDetail, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Resolver bundles the services the schema delegates to. Resolvers are
// synchronous pass-throughs; every business rule lives in the services.
type Resolver struct {
	Departments DepartmentService
	Students    StudentService
}

// NewSchema builds the executable schema.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	departmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Department",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"code": &graphql.Field{Type: graphql.String},
		},
	})

	studentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Student",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"firstName":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"lastName":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"matricNo":       &graphql.Field{Type: graphql.String},
			"email":          &graphql.Field{Type: graphql.String},
			"gpa":            &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"department":     &graphql.Field{Type: departmentType},
			"profilePicture": &graphql.Field{Type: graphql.String},
		},
	})

	departmentType.AddFieldConfig("students", &graphql.Field{
		Type: graphql.NewList(studentType),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			parent, ok := p.Source.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("unexpected department source %T", p.Source)
			}
			id, _ := parent["id"].(string)
			students, err := r.Students.ListByDepartment(p.Context, id)
			if err != nil {
				return nil, err
			}
			result := make([]interface{}, 0, len(students))
			for i := range students {
				result = append(result, studentMap(students[i], parent))
			}
			return result, nil
		},
	})

	departmentInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "DepartmentInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"code": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	studentInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "StudentInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"firstName":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"lastName":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"matricNo":       &graphql.InputObjectFieldConfig{Type: graphql.String},
			"email":          &graphql.InputObjectFieldConfig{Type: graphql.String},
			"gpa":            &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"departmentId":   &graphql.InputObjectFieldConfig{Type: graphql.ID},
			"profilePicture": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"departments": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(departmentType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					departments, err := r.Departments.List(p.Context)
					if err != nil {
						return nil, err
					}
					result := make([]interface{}, 0, len(departments))
					for i := range departments {
						result = append(result, departmentMap(departments[i]))
					}
					return result, nil
				},
			},
			"department": &graphql.Field{
				Type: departmentType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					department, err := r.Departments.Get(p.Context, stringArg(p.Args, "id"))
					if err != nil || department == nil {
						return nil, err
					}
					return departmentMap(*department), nil
				},
			},
			"students": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(studentType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					students, err := r.Students.List(p.Context)
					if err != nil {
						return nil, err
					}
					result := make([]interface{}, 0, len(students))
					for i := range students {
						result = append(result, studentDetailMap(students[i]))
					}
					return result, nil
				},
			},
			"student": &graphql.Field{
				Type: studentType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					student, err := r.Students.Get(p.Context, stringArg(p.Args, "id"))
					if err != nil || student == nil {
						return nil, err
					}
					return studentDetailMap(*student), nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addDepartment": &graphql.Field{
				Type: graphql.NewNonNull(departmentType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(departmentInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					department, err := r.Departments.Create(p.Context, departmentInput(inputArg(p.Args)))
					if err != nil {
						return nil, err
					}
					return departmentMap(*department), nil
				},
			},
			"updateDepartment": &graphql.Field{
				Type: graphql.NewNonNull(departmentType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(departmentInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					department, err := r.Departments.Update(p.Context, stringArg(p.Args, "id"), departmentInput(inputArg(p.Args)))
					if err != nil {
						return nil, err
					}
					return departmentMap(*department), nil
				},
			},
			"deleteDepartment": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Departments.Delete(p.Context, stringArg(p.Args, "id"))
				},
			},
			"addStudent": &graphql.Field{
				Type: graphql.NewNonNull(studentType),
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(studentInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					student, err := r.Students.Create(p.Context, studentInput(p))
					if err != nil {
						return nil, err
					}
					return studentDetailMap(*student), nil
				},
			},
			"updateStudent": &graphql.Field{
				Type: graphql.NewNonNull(studentType),
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(studentInputType)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					student, err := r.Students.Update(p.Context, stringArg(p.Args, "id"), studentInput(p))
					if err != nil {
						return nil, err
					}
					return studentDetailMap(*student), nil
				},
			},
			"deleteStudent": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Students.Delete(p.Context, stringArg(p.Args, "id"))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func inputArg(args map[string]interface{}) map[string]interface{} {
	if m, ok := args["input"].(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func optionalString(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok {
		return &v
	}
	return nil
}

func departmentInput(m map[string]interface{}) service.DepartmentInput {
	return service.DepartmentInput{
		Name: stringArg(m, "name"),
		Code: optionalString(m, "code"),
	}
}

func studentInput(p graphql.ResolveParams) service.StudentInput {
	m := inputArg(p.Args)
	input := service.StudentInput{
		FirstName:    stringArg(m, "firstName"),
		LastName:     stringArg(m, "lastName"),
		MatricNo:     optionalString(m, "matricNo"),
		Email:        optionalString(m, "email"),
		DepartmentID: optionalString(m, "departmentId"),
	}
	if v, ok := m["gpa"].(float64); ok {
		input.GPA = v
	} else if v, ok := m["gpa"].(int); ok {
		input.GPA = float64(v)
	}
	// Presence of the key matters: omitting profilePicture leaves the
	// stored value untouched, an explicit null clears it.
	if raw, present := m["profilePicture"]; present {
		input.ProfilePictureSet = true
		if v, ok := raw.(string); ok {
			input.ProfilePicture = &v
		}
	}
	if !input.ProfilePictureSet {
		applyRawPicture(&input, p)
	}
	return input
}

// applyRawPicture recovers a null-valued profilePicture from the request.
// Input coercion drops null variable fields before resolvers run, so the
// coerced map cannot distinguish "profilePicture": null from an omitted
// key; the uncoerced variables threaded through the context still can.
func applyRawPicture(input *service.StudentInput, p graphql.ResolveParams) {
	raw, ok := rawStudentInput(p)
	if !ok {
		return
	}
	value, present := raw["profilePicture"]
	if !present {
		return
	}
	input.ProfilePictureSet = true
	if v, ok := value.(string); ok {
		input.ProfilePicture = &v
	} else {
		input.ProfilePicture = nil
	}
}

// rawStudentInput resolves the mutation's input argument against the
// uncoerced variables: either the whole input object is a variable, or a
// literal object carries variable-valued fields.
func rawStudentInput(p graphql.ResolveParams) (map[string]interface{}, bool) {
	variables := rawVariablesFrom(p.Context)
	if len(p.Info.FieldASTs) == 0 {
		return nil, false
	}
	for _, arg := range p.Info.FieldASTs[0].Arguments {
		if arg.Name == nil || arg.Name.Value != "input" {
			continue
		}
		switch value := arg.Value.(type) {
		case *ast.Variable:
			if value.Name == nil {
				return nil, false
			}
			m, ok := variables[value.Name.Value].(map[string]interface{})
			return m, ok
		case *ast.ObjectValue:
			m := make(map[string]interface{}, len(value.Fields))
			for _, field := range value.Fields {
				if field.Name == nil {
					continue
				}
				if v, ok := field.Value.(*ast.Variable); ok && v.Name != nil {
					if raw, supplied := variables[v.Name.Value]; supplied {
						m[field.Name.Value] = raw
					}
					continue
				}
				if sv, ok := field.Value.(*ast.StringValue); ok {
					m[field.Name.Value] = sv.Value
					continue
				}
				m[field.Name.Value] = field.Value.GetValue()
			}
			return m, true
		}
	}
	return nil, false
}

func departmentMap(d models.Department) map[string]interface{} {
	result := map[string]interface{}{
		"id":   d.ID,
		"name": d.Name,
	}
	if d.Code != nil {
		result["code"] = *d.Code
	}
	return result
}

func studentMap(s models.Student, department map[string]interface{}) map[string]interface{} {
	result := map[string]interface{}{
		"id":        s.ID,
		"firstName": s.FirstName,
		"lastName":  s.LastName,
		"gpa":       s.GPA,
	}
	if s.MatricNo != nil {
		result["matricNo"] = *s.MatricNo
	}
	if s.Email != nil {
		result["email"] = *s.Email
	}
	if s.ProfilePicture != nil {
		result["profilePicture"] = *s.ProfilePicture
	}
	if department != nil {
		result["department"] = department
	}
	return result
}

func studentDetailMap(s models.StudentDetail) map[string]interface{} {
	var department map[string]interface{}
	if d := s.Department(); d != nil {
		department = departmentMap(*d)
	}
	return studentMap(s.Student, department)
}
