package compiler

import (
	"strconv"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"

	"github.com/vyPal/exprtree/lib/ast"
)

// DefaultFuncName is the name of the generated function when none is given.
const DefaultFuncName = "expr"

type Compiler struct {
	Module *ir.Module
	name   string
	block  *ir.Block
	// externs maps a lower-cased function name to its declaration.
	externs map[string]*ir.Func
}

func NewCompiler() *Compiler {
	return &Compiler{
		Module:  ir.NewModule(),
		externs: make(map[string]*ir.Func),
	}
}

// Compile emits a module holding `i64 @name()` that evaluates root with
// 64-bit signed arithmetic.
func Compile(root ast.Node, name string) (*ir.Module, error) {
	c := NewCompiler()
	if err := c.Compile(root, name); err != nil {
		return nil, err
	}
	return c.Module, nil
}

func (c *Compiler) Compile(root ast.Node, name string) error {
	if root == nil {
		return errors.New("nothing to compile")
	}
	if name == "" {
		name = DefaultFuncName
	}
	c.name = name
	f := c.Module.NewFunc(name, types.I64)
	c.block = f.NewBlock("entry")

	v, err := c.compileNode(root)
	if err != nil {
		return errors.Wrapf(err, "compiling @%s", name)
	}
	c.block.NewRet(v)
	return nil
}

func (c *Compiler) compileNode(n ast.Node) (value.Value, error) {
	switch n := n.(type) {
	case *ast.Literal:
		return compileLiteral(n)
	case *ast.BinaryExpression:
		return c.compileBinary(n)
	case *ast.FunctionCall:
		return c.compileCall(n)
	default:
		return nil, errors.Errorf("unsupported node %T", n)
	}
}

func compileLiteral(l *ast.Literal) (value.Value, error) {
	v, err := strconv.ParseInt(l.Value, 10, 64)
	if err != nil {
		return nil, errors.Errorf("literal %s does not fit in 64 bits", l.Value)
	}
	return constant.NewInt(types.I64, v), nil
}

func (c *Compiler) compileBinary(b *ast.BinaryExpression) (value.Value, error) {
	left, err := c.compileNode(b.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.compileNode(b.Right)
	if err != nil {
		return nil, err
	}

	switch b.Operator {
	case "+":
		return c.block.NewAdd(left, right), nil
	case "-":
		return c.block.NewSub(left, right), nil
	case "*":
		return c.block.NewMul(left, right), nil
	case "/":
		if k, ok := right.(*constant.Int); ok && k.X.Sign() == 0 {
			return nil, errors.New("division by constant zero")
		}
		return c.block.NewSDiv(left, right), nil
	default:
		return nil, errors.Errorf("unknown operator %q", b.Operator)
	}
}

func (c *Compiler) compileCall(fc *ast.FunctionCall) (value.Value, error) {
	args := make([]value.Value, len(fc.Arguments))
	for i, arg := range fc.Arguments {
		v, err := c.compileNode(arg)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch strings.ToLower(fc.Name) {
	case "max":
		return c.fold(fc.Name, enum.IPredSGT, args)
	case "min":
		return c.fold(fc.Name, enum.IPredSLT, args)
	case "abs":
		if len(args) != 1 {
			return nil, errors.Errorf("%s takes 1 argument, got %d", fc.Name, len(args))
		}
		neg := c.block.NewSub(constant.NewInt(types.I64, 0), args[0])
		isNeg := c.block.NewICmp(enum.IPredSLT, args[0], constant.NewInt(types.I64, 0))
		return c.block.NewSelect(isNeg, neg, args[0]), nil
	}

	callee, err := c.declare(fc.Name, len(args))
	if err != nil {
		return nil, err
	}
	return c.block.NewCall(callee, args...), nil
}

// fold reduces args pairwise, keeping the operand for which pred holds.
func (c *Compiler) fold(name string, pred enum.IPred, args []value.Value) (value.Value, error) {
	if len(args) == 0 {
		return nil, errors.Errorf("%s takes at least 1 argument", name)
	}
	acc := args[0]
	for _, arg := range args[1:] {
		keep := c.block.NewICmp(pred, acc, arg)
		acc = c.block.NewSelect(keep, acc, arg)
	}
	return acc, nil
}

// declare returns the external declaration for name, creating it on first
// use. Later calls must agree on the number of arguments.
func (c *Compiler) declare(name string, arity int) (*ir.Func, error) {
	key := strings.ToLower(name)
	if strings.EqualFold(key, c.name) {
		return nil, errors.Errorf("%s calls itself", name)
	}
	if f, ok := c.externs[key]; ok {
		if len(f.Params) != arity {
			return nil, errors.Errorf("%s called with %d arguments, previously with %d", name, arity, len(f.Params))
		}
		return f, nil
	}
	params := make([]*ir.Param, arity)
	for i := range params {
		params[i] = ir.NewParam("x"+strconv.Itoa(i), types.I64)
	}
	f := c.Module.NewFunc(key, types.I64, params...)
	c.externs[key] = f
	return f, nil
}
