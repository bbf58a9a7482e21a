// # internal/engine/presets/builtin.go
package presets

// bundle is one built-in preset: a fixed origin and the names it exports.
type bundle struct {
	from    string
	imports []string
}

var builtins = map[string]bundle{
	"react": {
		from: "react",
		imports: []string{
			"useState", "useCallback", "useMemo", "useEffect", "useRef", "useContext", "useReducer",
		},
	},
	"react-router": {
		from: "react-router",
		imports: []string{
			"useOutletContext", "useHref", "useInRouterContext", "useLocation", "useNavigationType",
			"useNavigate", "useOutlet", "useParams", "useResolvedPath", "useRoutes",
		},
	},
	"react-router-dom": {
		from: "react-router-dom",
		imports: []string{
			"useLinkClickHandler", "useSearchParams", "Link", "NavLink", "Navigate", "Outlet", "Route", "Routes",
		},
	},
	"vue": {
		from: "vue",
		imports: []string{
			// lifecycle
			"onActivated", "onBeforeMount", "onBeforeUnmount", "onBeforeUpdate", "onErrorCaptured",
			"onDeactivated", "onMounted", "onServerPrefetch", "onUnmounted", "onUpdated",
			// setup helpers
			"useAttrs", "useSlots", "useCssModule", "useCssVars",
			// reactivity
			"computed", "customRef", "isReadonly", "isRef", "isProxy", "isReactive", "markRaw",
			"reactive", "readonly", "ref", "shallowReactive", "shallowReadonly", "shallowRef",
			"triggerRef", "toRaw", "toRef", "toRefs", "toValue", "unref", "watch", "watchEffect",
			"watchPostEffect", "watchSyncEffect",
			// component
			"defineComponent", "defineAsyncComponent", "getCurrentInstance", "h", "inject",
			"nextTick", "provide", "effectScope", "getCurrentScope", "onScopeDispose",
		},
	},
	"vue-router": {
		from: "vue-router",
		imports: []string{
			"useRouter", "useRoute", "useLink", "onBeforeRouteLeave", "onBeforeRouteUpdate",
		},
	},
	"pinia": {
		from: "pinia",
		imports: []string{
			"acceptHMRUpdate", "createPinia", "defineStore", "getActivePinia", "mapActions",
			"mapGetters", "mapState", "mapStores", "mapWritableState", "setActivePinia",
			"setMapStoreSuffix", "storeToRefs",
		},
	},
}

// Builtin reports the names a built-in preset exports, and whether id is
// known.
func Builtin(id string) (from string, imports []string, ok bool) {
	b, ok := builtins[id]
	if !ok {
		return "", nil, false
	}
	return b.from, append([]string(nil), b.imports...), true
}
