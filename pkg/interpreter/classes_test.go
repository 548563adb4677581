package interpreter

import (
	"testing"

	"sox/interpreter-go/pkg/runtime"
)

func TestConstructorYieldsInstance(t *testing.T) {
	expectOutput(t, `
class Bagel {}
let b = Bagel();
print b;
`, []string{"Bagel instance"})
}

func TestInitRunsAndDiscardsBodyResult(t *testing.T) {
	expectOutput(t, `
class Foo {
  init(label) {
    print "Foo.init(" + label + ")";
    this.label = label;
  }
}
let one = Foo("one");
let two = Foo("two");
print two;
print two.label;
`, []string{"Foo.init(one)", "Foo.init(two)", "Foo instance", "two"})
}

func TestReinvokingInitReturnsSameInstance(t *testing.T) {
	expectOutput(t, `
class Counter {
  init() {
    this.n = 0;
  }
}
let c = Counter();
c.n = 7;
let again = c.init();
print again == c;
print c.n;
`, []string{"true", "0"})
}

func TestBareReturnInInitYieldsReceiver(t *testing.T) {
	expectOutput(t, `
class Early {
  init(done) {
    if (done) {
      return;
    }
    this.tail = "ran";
  }
}
print Early(true) == nil;
print Early(false).tail;
`, []string{"false", "ran"})
}

func TestFieldsShadowMethodsOnRead(t *testing.T) {
	expectOutput(t, `
class Thing {
  describe() {
    return "method";
  }
}
let t = Thing();
print t.describe();
t.describe = "field";
print t.describe;
`, []string{"method", "field"})
}

func TestSetAlwaysWritesFieldTable(t *testing.T) {
	expectOutput(t, `
class Thing {
  describe() {
    return "method";
  }
}
let a = Thing();
let b = Thing();
a.describe = "shadowed";
print b.describe();
`, []string{"method"})
}

func TestMethodsBindReceiver(t *testing.T) {
	expectOutput(t, `
class Person {
  init(name) {
    this.name = name;
  }
  sayName() {
    print this.name;
  }
}
let jane = Person("jane");
let method = jane.sayName;
method();
`, []string{"jane"})
}

func TestEachLookupBindsFresh(t *testing.T) {
	expectOutput(t, `
class C {
  m() { return this; }
}
let c = C();
print c.m == c.m;
print c.m() == c.m();
`, []string{"false", "true"})
}

func TestInheritanceAndMethodResolution(t *testing.T) {
	expectOutput(t, `
class Doughnut {
  cook() {
    print "Fry until golden brown.";
  }
}
class BostonCream < Doughnut {
  topping() {
    print "Pipe full of custard.";
  }
}
let d = BostonCream();
d.cook();
d.topping();
`, []string{"Fry until golden brown.", "Pipe full of custard."})
}

func TestSuperDispatch(t *testing.T) {
	expectOutput(t, `
class A {
  method() {
    print "A.method";
  }
}
class B < A {
  method() {
    print "B.method";
  }
  test() {
    super.method();
  }
}
class C < B {}
C().test();
`, []string{"A.method"})
}

func TestSuperInitChains(t *testing.T) {
	expectOutput(t, `
class Base {
  init(x) {
    this.x = x;
  }
}
class Derived < Base {
  init(x, y) {
    super.init(x);
    this.y = y;
  }
}
let d = Derived(1, 2);
print d.x;
print d.y;
`, []string{"1", "2"})
}

func TestConstructorArity(t *testing.T) {
	expectRuntimeError(t, `
class P {
  init(a, b) {}
}
P(1);
`, runtime.ArityMismatch, "Expected 2 arguments but got 1.")
	expectRuntimeError(t, `
class Q {}
Q(1);
`, runtime.ArityMismatch, "Expected 0 arguments but got 1.")
}

func TestUndefinedProperty(t *testing.T) {
	expectRuntimeError(t, `
class C {}
C().missing;
`, runtime.UndefinedProperty, "Undefined property 'missing'.")
}

func TestPropertyAccessOnNonInstance(t *testing.T) {
	expectRuntimeError(t, `"text".length;`, runtime.TypeError, "Only instances have properties.")
	expectRuntimeError(t, `123.field = 1;`, runtime.TypeError, "Only instances have fields.")
}

func TestSuperclassMustBeClass(t *testing.T) {
	expectRuntimeError(t, `
let NotAClass = "oops";
class Sub < NotAClass {}
`, runtime.TypeError, "Superclass must be a class.")
}

func TestSuperMethodMissing(t *testing.T) {
	expectRuntimeError(t, `
class A {}
class B < A {
  m() {
    super.missing();
  }
}
B().m();
`, runtime.UndefinedProperty, "Undefined property 'missing'.")
}

func TestMethodsCloseOverDeclarationScope(t *testing.T) {
	expectOutput(t, `
let label = "outer";
class C {
  read() {
    return label;
  }
}
let c = C();
label = "mutated";
print c.read();
`, []string{"mutated"})
}
