package engine

type Component interface {
	Start()
	Update(deltaTime float32)
	OnDestroy()
	SetObject(o *Object)
	GetObject() *Object
}

// BaseComponent provides default implementations for Component.
type BaseComponent struct {
	object *Object
}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) OnDestroy() {}

func (b *BaseComponent) SetObject(o *Object) {
	b.object = o
}

func (b *BaseComponent) GetObject() *Object {
	return b.object
}
