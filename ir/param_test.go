package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }

func TestNewParamValid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		param *Param
	}{
		{
			name: "plain string",
			param: &Param{
				Base: Base{ID: 1, Name: "subject"},
				Body: &String{},
			},
		},
		{
			name: "bounded int with default inside bounds",
			param: &Param{
				Base:    Base{ID: 2, Name: "threads"},
				Body:    &Int{MinValue: intPtr(1), MaxValue: intPtr(64)},
				Default: 4,
			},
		},
		{
			name: "float accepts int default",
			param: &Param{
				Base:    Base{ID: 3, Name: "sigma"},
				Body:    &Float{MinValue: floatPtr(0)},
				Default: 2,
			},
		},
		{
			name: "nullable with SetToNone default",
			param: &Param{
				Base:     Base{ID: 4, Name: "mask"},
				Body:     &File{},
				Nullable: true,
				Default:  SetToNone,
			},
		},
		{
			name: "string choices",
			param: &Param{
				Base:    Base{ID: 5, Name: "mode"},
				Body:    &String{},
				Choices: []any{"fast", "accurate"},
				Default: "fast",
			},
		},
		{
			name: "list with typed slice default inside count bounds",
			param: &Param{
				Base:    Base{ID: 6, Name: "shape"},
				Body:    &Int{},
				List:    &List{CountMin: intPtr(1), CountMax: intPtr(3)},
				Default: []int{64, 64},
			},
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p, err := NewParam(tc.param)
			require.NoError(t, err)
			assert.Same(t, tc.param, p)
		})
	}
}

func TestNewParamInvalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		param   *Param
		wantErr string
	}{
		{
			name:    "missing body",
			param:   &Param{Base: Base{ID: 1, Name: "broken"}},
			wantErr: "missing body",
		},
		{
			name: "choice kind mismatch",
			param: &Param{
				Base:    Base{ID: 2, Name: "mode"},
				Body:    &Int{},
				Choices: []any{1, "two"},
			},
			wantErr: "choice two is not a int",
		},
		{
			name: "SetToNone on non-nullable",
			param: &Param{
				Base:    Base{ID: 3, Name: "mask"},
				Body:    &File{},
				Default: SetToNone,
			},
			wantErr: "default SetToNone requires nullable",
		},
		{
			name: "default kind mismatch",
			param: &Param{
				Base:    Base{ID: 4, Name: "threads"},
				Body:    &Int{},
				Default: "four",
			},
			wantErr: "default four is not a int",
		},
		{
			name: "default on struct body",
			param: &Param{
				Base:    Base{ID: 5, Name: "options"},
				Body:    &Struct{Name: "options"},
				Default: "x",
			},
			wantErr: "default value not supported",
		},
		{
			name: "scalar default on list parameter",
			param: &Param{
				Base:    Base{ID: 6, Name: "shape"},
				Body:    &Int{},
				List:    &List{},
				Default: 64,
			},
			wantErr: "default of a list parameter must be a slice",
		},
		{
			name: "list default item kind mismatch",
			param: &Param{
				Base:    Base{ID: 7, Name: "shape"},
				Body:    &Int{},
				List:    &List{},
				Default: []any{64, "wide"},
			},
			wantErr: "default list item wide is not a int",
		},
		{
			name: "int bounds inverted",
			param: &Param{
				Base: Base{ID: 8, Name: "threads"},
				Body: &Int{MinValue: intPtr(8), MaxValue: intPtr(2)},
			},
			wantErr: "min value 8 greater than max value 2",
		},
		{
			name: "int default below min",
			param: &Param{
				Base:    Base{ID: 9, Name: "threads"},
				Body:    &Int{MinValue: intPtr(1)},
				Default: 0,
			},
			wantErr: "default 0 less than min value 1",
		},
		{
			name: "float default above max",
			param: &Param{
				Base:    Base{ID: 10, Name: "sigma"},
				Body:    &Float{MaxValue: floatPtr(1)},
				Default: 2.5,
			},
			wantErr: "default 2.5 greater than max value 1",
		},
		{
			name: "list count bounds inverted",
			param: &Param{
				Base: Base{ID: 11, Name: "shape"},
				Body: &Int{},
				List: &List{CountMin: intPtr(3), CountMax: intPtr(1)},
			},
			wantErr: "list count min 3 greater than count max 1",
		},
		{
			name: "list default shorter than count min",
			param: &Param{
				Base:    Base{ID: 12, Name: "shape"},
				Body:    &Int{},
				List:    &List{CountMin: intPtr(2)},
				Default: []int{64},
			},
			wantErr: "default list shorter than count min 2",
		},
		{
			name: "list default longer than count max",
			param: &Param{
				Base:    Base{ID: 13, Name: "shape"},
				Body:    &Int{},
				List:    &List{CountMax: intPtr(1)},
				Default: []int{64, 64},
			},
			wantErr: "default list longer than count max 1",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewParam(tc.param)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateDoesNotDescend(t *testing.T) {
	t.Parallel()

	// The broken child must not fail the parent's own validation.
	broken := &Param{Base: Base{ID: 2, Name: "broken"}}
	parent := &Param{
		Base: Base{ID: 1, Name: "options"},
		Body: &Struct{
			Name: "options",
			Groups: []*ConditionalGroup{
				{Cargs: []*CmdArg{{Tokens: []Token{ParamToken(broken)}}}},
			},
		},
	}
	assert.NoError(t, parent.Validate())
	assert.Error(t, broken.Validate())
}

func TestSetToNoneIdentity(t *testing.T) {
	t.Parallel()

	// The sentinel compares equal only to itself.
	sentinel := SetToNone
	assert.True(t, sentinel == SetToNone)
	assert.False(t, sentinel == nil)
	assert.False(t, sentinel == any(struct{}{}))
}
