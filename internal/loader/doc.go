// Package loader reads component declarations from YAML files.
//
// # Schema Overview
//
//	component: routing
//	version: 1.2.0
//	externals:
//	  - Point               # searched in every other component
//	  - name: Polygon
//	    from: geo           # pinned to one component
//	custom_types:
//	  - name: UserId
//	    wire: string
//	    to_wire: user_id_to_string
//	    from_wire: user_id_from_string
//	types:
//	  - name: Route
//	    doc: An ordered list of stops.
//	    record:
//	      stops: sequence<Point>
//	      owner: optional<UserId>
//	  - name: Mode
//	    enum:
//	      - Walk
//	      - Drive: {speed: f64}
//	  - name: RouteError
//	    error: [NoPath, Timeout]
//	  - name: Distance
//	    alias: f64
//	  - name: Planner
//	    object:
//	      constructors:
//	        - name: new
//	      methods:
//	        - name: plan
//	          params: {from: Point, to: Point}
//	          returns: Route
//	          throws: RouteError
//	          async: true
//	functions:
//	  - name: version
//	    returns: string
//
// Record fields and function parameters keep the order in which they are
// written. An empty record is written as "record: {}". Every type entry carries exactly one of alias, record, enum,
// error or object.
package loader
