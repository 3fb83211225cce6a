package vision

// Bus carries classified recognition events from connection handlers to
// their single consumers. One producer side per connection, one consumer
// per channel; sends never block (overflow is dropped and counted).
type Bus struct {
    Faces   chan FaceEvent
    Objects chan ObjectEvent
}

func NewBus(buf int) *Bus {
    return &Bus{
        Faces:   make(chan FaceEvent, buf),
        Objects: make(chan ObjectEvent, buf),
    }
}

// publishFace enqueues without blocking the connection handler.
func (b *Bus) publishFace(ev FaceEvent) bool {
    select {
    case b.Faces <- ev:
        return true
    default:
        return false
    }
}

func (b *Bus) publishObject(ev ObjectEvent) bool {
    select {
    case b.Objects <- ev:
        return true
    default:
        return false
    }
}
